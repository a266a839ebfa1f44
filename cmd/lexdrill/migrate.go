package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rowanvale/lexdrill/internal/config"
	"github.com/rowanvale/lexdrill/internal/platform/logger"
	"github.com/rowanvale/lexdrill/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log, err := logger.Setup(cfg.Server.LogLevel)
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := migrations.Up(db, cfg.Database.Driver); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("migrations applied", slog.String("driver", cfg.Database.Driver))
		return nil
	},
}
