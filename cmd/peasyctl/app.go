package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/peasy-money/peasy-money-backend/internal/config"
	"github.com/peasy-money/peasy-money-backend/internal/database"
	"github.com/peasy-money/peasy-money-backend/internal/logger"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/peasy-money/peasy-money-backend/internal/service"
	"github.com/peasy-money/peasy-money-backend/internal/yahoo"
)

// newYahooClient is replaced in tests.
var newYahooClient = func(log zerolog.Logger) yahoo.Client {
	return yahoo.NewFinanceClient(log)
}

// app is the migrated database and the services the commands drive.
type app struct {
	db        *sql.DB
	log       zerolog.Logger
	schema    int64
	snapshots *service.SnapshotService
	tickers   *service.TickerService
}

// openApp loads the configuration, opens and migrates the database, and wires the services.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	schema, err := database.Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", cfg.Database.Path, err)
	}

	transactionRepo := repository.NewTransactionRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	client := newYahooClient(log)
	oracle := service.NewPriceOracle(client, log, cfg.Prices.LookbackDays, cfg.Prices.FetchConcurrency)

	return &app{
		db:        db,
		log:       log,
		schema:    schema,
		snapshots: service.NewSnapshotService(db, transactionRepo, historyRepo, oracle, log),
		tickers:   service.NewTickerService(repository.NewTickerRepository(db), transactionRepo, client, log),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
