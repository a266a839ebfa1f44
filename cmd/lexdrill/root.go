package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowanvale/lexdrill/internal/config"
	"github.com/rowanvale/lexdrill/internal/platform/postgres"
	"github.com/rowanvale/lexdrill/internal/platform/sqlite"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "lexdrill",
	Short:         "Spaced-repetition vocabulary trainer",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (default: ./lexdrill.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
}

// openDatabase opens the configured backend.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Database.DSN)
	case "postgres":
		return postgres.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
