package main

import (
	"context"
	"log/slog"

	"github.com/aliciamunhoz/kanban-next/internal/config"
	"github.com/aliciamunhoz/kanban-next/internal/database"
	"github.com/aliciamunhoz/kanban-next/internal/server"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "kanban",
		Short:         "Kanban board API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	migrateUpCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	}
	downSteps      int
	migrateDownCmd = &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateDown,
	}
)

func init() {
	migrateDownCmd.Flags().IntVar(&downSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func setup() (*config.Config, *slog.Logger) {
	cfg := config.Load()
	log := server.NewLogger(cfg)
	slog.SetDefault(log)
	return cfg, log
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log := setup()

	s, err := server.Init(context.Background(), cfg, log)
	if err != nil {
		log.Error("server initialization failed", "error", err)
		return err
	}

	if err := s.Run(); err != nil {
		log.Error("server stopped", "error", err)
		return err
	}
	return nil
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, log := setup()
	if err := database.MigrateUp(cfg.MigrationURL(), log); err != nil {
		log.Error("migrate up failed", "error", err)
		return err
	}
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	cfg, log := setup()
	if err := database.MigrateDown(cfg.MigrationURL(), downSteps, log); err != nil {
		log.Error("migrate down failed", "error", err)
		return err
	}
	return nil
}
