// Package config handles loading taskboard configuration.
//
// Values are layered: built-in defaults, then the TOML config file, then
// environment variables (a .env file in the working directory is loaded
// first), then command-line flags applied by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/tgienger/taskboard/internal/db"
)

// Environment variables that override the config file.
const (
	EnvDatabase    = "TASKBOARD_DB"
	EnvAddr        = "TASKBOARD_ADDR"
	EnvCORSOrigins = "TASKBOARD_CORS_ORIGINS"
	EnvGinMode     = "TASKBOARD_GIN_MODE"
)

// Config represents the taskboard configuration file.
type Config struct {
	Database Database `toml:"database"`
	Server   Server   `toml:"server"`
}

// Database contains storage configuration.
type Database struct {
	// Path is the SQLite database file.
	Path string `toml:"path"`
}

// Server contains HTTP API configuration.
type Server struct {
	Addr string `toml:"addr"`

	// AllowedOrigins lists the origins allowed by CORS.
	AllowedOrigins []string `toml:"allowed-origins"`

	// Mode is the gin mode: debug, release or test.
	Mode string `toml:"mode"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	dbPath, err := db.DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Config{
		Database: Database{Path: dbPath},
		Server: Server{
			Addr:           ":8000",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
			Mode:           "release",
		},
	}, nil
}

// DefaultPath returns the global config file location.
func DefaultPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "taskboard", "config.toml"), nil
}

// Load builds the configuration from defaults, the file at path (the default
// location when empty) and the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	// Missing .env is fine
	_ = godotenv.Load()
	applyEnv(cfg)

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var file Config
	meta, err := toml.Decode(string(data), &file)
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parse config file %s: unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("database", "path") {
		cfg.Database.Path = expandHome(strings.TrimSpace(file.Database.Path))
	}
	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(file.Server.Addr)
	}
	if meta.IsDefined("server", "allowed-origins") {
		cfg.Server.AllowedOrigins = append([]string(nil), file.Server.AllowedOrigins...)
	}
	if meta.IsDefined("server", "mode") {
		cfg.Server.Mode = strings.TrimSpace(file.Server.Mode)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDatabase)); v != "" {
		cfg.Database.Path = expandHome(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCORSOrigins)); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvGinMode)); v != "" {
		cfg.Server.Mode = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// expandHome expands a leading ~ to the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
