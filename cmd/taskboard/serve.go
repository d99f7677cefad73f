package main

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tgienger/taskboard/internal/api"
	"github.com/tgienger/taskboard/internal/board"
	"github.com/tgienger/taskboard/internal/db"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()
	log.Printf("using database %s", cfg.Database.Path)

	srv := api.NewServer(board.NewService(database), api.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Mode:           cfg.Server.Mode,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		return err
	}
	log.Printf("shut down")
	return nil
}
