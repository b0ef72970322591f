package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/api"
	"github.com/peasy-money/peasy-money-backend/internal/config"
	"github.com/peasy-money/peasy-money-backend/internal/database"
	"github.com/peasy-money/peasy-money-backend/internal/logger"
	"github.com/peasy-money/peasy-money-backend/internal/version"
	"github.com/peasy-money/peasy-money-backend/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open database")
	}
	defer db.Close()

	schema, err := database.Migrate(context.Background(), db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().
		Str("path", cfg.Database.Path).
		Int64("schema_version", schema).
		Str("version", version.Version).
		Msg("database ready")

	svc, tokenAuth := newServices(cfg, db, yahoo.NewFinanceClient(log), log)

	if cfg.Auth.InternalAPIKey == "" {
		log.Warn().Msg("INTERNAL_API_KEY is empty, cron endpoints will reject every request")
	}

	sched, err := newScheduler(cfg.Scheduler, svc, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure scheduler")
	}
	if sched != nil {
		sched.Start()
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(svc, tokenAuth, cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}
