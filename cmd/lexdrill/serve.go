package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rowanvale/lexdrill/internal/api"
	"github.com/rowanvale/lexdrill/internal/config"
	"github.com/rowanvale/lexdrill/internal/domain/fsrs"
	"github.com/rowanvale/lexdrill/internal/platform/logger"
	"github.com/rowanvale/lexdrill/internal/platform/postgres"
	"github.com/rowanvale/lexdrill/internal/platform/sqlite"
	"github.com/rowanvale/lexdrill/internal/service/scheduler"
	"github.com/rowanvale/lexdrill/internal/service/session"
	"github.com/rowanvale/lexdrill/internal/store"
	"github.com/rowanvale/lexdrill/migrations"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the study API server",
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
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn("failed to close database", slog.String("error", err.Error()))
			}
		}()

		if cfg.Database.AutoMigrate {
			if err := migrations.Up(db, cfg.Database.Driver); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			log.Info("migrations applied", slog.String("driver", cfg.Database.Driver))
		}

		params := fsrs.DefaultParams()
		params.DesiredRetention = cfg.Study.TargetRetention
		params.MaximumInterval = cfg.Study.MaximumIntervalDays
		model := fsrs.NewService(params)

		var (
			progress store.ProgressStore
			words    store.WordStore
			history  store.SessionStore
		)
		switch cfg.Database.Driver {
		case "postgres":
			progress = postgres.NewProgressStore(db, model, log)
			words = postgres.NewWordStore(db, log)
			history = postgres.NewSessionStore(db, log)
		default:
			progress = sqlite.NewProgressStore(db, model, log)
			words = sqlite.NewWordStore(db, log)
			history = sqlite.NewSessionStore(db, log)
		}

		queue := scheduler.New(progress, log)
		sessions := session.NewManager(queue, words, progress, history, model, log)

		studyHandler := api.NewStudyHandler(sessions, history, api.StudyDefaults{
			NewWordsLimit: cfg.Study.DefaultNewWordsLimit,
			ReviewLimit:   cfg.Study.DefaultReviewLimit,
		}, log)
		wordHandler := api.NewWordHandler(words, progress, model, log)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           api.NewRouter(studyHandler, wordHandler),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("server listening", slog.Int("port", cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("shutting down", slog.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			return nil
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		}
	},
}
