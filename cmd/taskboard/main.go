// Package main implements the taskboard CLI.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/config"
	"github.com/tgienger/taskboard/internal/db"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:           "taskboard",
	Short:         "Task board with projects, tasks and subtasks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	log.SetPrefix("taskboard: ")
	log.SetFlags(log.LstdFlags)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/taskboard/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file (overrides config)")
}

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig resolves the configuration with command-line overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

// openBoard opens the database and wraps it in a Service. The caller closes
// the returned database.
func openBoard() (*db.DB, *board.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return database, board.NewService(database), nil
}

// withBoard runs fn against an open Service.
func withBoard(fn func(svc *board.Service) error) error {
	database, svc, err := openBoard()
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(svc)
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}
