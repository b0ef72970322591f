package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog"

	"github.com/peasy-money/peasy-money-backend/internal/api"
	"github.com/peasy-money/peasy-money-backend/internal/config"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/peasy-money/peasy-money-backend/internal/scheduler"
	"github.com/peasy-money/peasy-money-backend/internal/service"
	"github.com/peasy-money/peasy-money-backend/internal/yahoo"
)

// newServices builds the repositories and services behind the HTTP layer.
func newServices(cfg *config.Config, db *sql.DB, client yahoo.Client, log zerolog.Logger) (api.Services, *jwtauth.JWTAuth) {
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	tickerRepo := repository.NewTickerRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	oracle := service.NewPriceOracle(client, log, cfg.Prices.LookbackDays, cfg.Prices.FetchConcurrency)
	tokenAuth := jwtauth.New("HS256", []byte(cfg.Auth.SecretKey), nil)

	return api.Services{
		System:      service.NewSystemService(db),
		Auth:        service.NewAuthService(userRepo, tokenAuth, time.Duration(cfg.Auth.AccessTokenTTLMinutes)*time.Minute),
		Transaction: service.NewTransactionService(db, transactionRepo, tickerRepo),
		Holdings:    service.NewHoldingsService(transactionRepo),
		Valuation:   service.NewValuationService(transactionRepo, historyRepo, oracle, log),
		Snapshot:    service.NewSnapshotService(db, transactionRepo, historyRepo, oracle, log),
		Ticker:      service.NewTickerService(tickerRepo, transactionRepo, client, log),
	}, tokenAuth
}

// newScheduler registers the snapshot and ticker refresh jobs. It returns nil when
// the scheduler is disabled.
func newScheduler(cfg config.SchedulerConfig, svc api.Services, log zerolog.Logger) (*scheduler.Scheduler, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.SnapshotSchedule, scheduler.NewDailySnapshotJob(svc.Snapshot, log)); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", cfg.SnapshotSchedule, err)
	}
	if err := sched.AddJob(cfg.TickerRefreshSchedule, scheduler.NewTickerRefreshJob(svc.Ticker, log)); err != nil {
		return nil, fmt.Errorf("invalid ticker refresh schedule %q: %w", cfg.TickerRefreshSchedule, err)
	}
	return sched, nil
}
