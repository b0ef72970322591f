package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Snapshotter writes the daily portfolio history.
type Snapshotter interface {
	RunDailySnapshot(ctx context.Context, target *time.Time) (int, error)
}

// TickerRefresher refreshes ticker display names.
type TickerRefresher interface {
	RefreshTickers(ctx context.Context) (int, error)
}

// DailySnapshotJob snapshots every user's portfolio value for yesterday.
type DailySnapshotJob struct {
	snapshots Snapshotter
	log       zerolog.Logger
}

// NewDailySnapshotJob creates a new DailySnapshotJob.
func NewDailySnapshotJob(snapshots Snapshotter, log zerolog.Logger) *DailySnapshotJob {
	return &DailySnapshotJob{
		snapshots: snapshots,
		log:       log.With().Str("job", "daily_snapshot").Logger(),
	}
}

// Name returns the job name
func (j *DailySnapshotJob) Name() string {
	return "daily_snapshot"
}

// Run executes the job
func (j *DailySnapshotJob) Run(ctx context.Context) error {
	users, err := j.snapshots.RunDailySnapshot(ctx, nil)
	if err != nil {
		return err
	}
	j.log.Info().Int("users", users).Msg("daily snapshot written")
	return nil
}

// TickerRefreshJob refreshes the names of every traded ticker.
type TickerRefreshJob struct {
	tickers TickerRefresher
	log     zerolog.Logger
}

// NewTickerRefreshJob creates a new TickerRefreshJob.
func NewTickerRefreshJob(tickers TickerRefresher, log zerolog.Logger) *TickerRefreshJob {
	return &TickerRefreshJob{
		tickers: tickers,
		log:     log.With().Str("job", "ticker_refresh").Logger(),
	}
}

// Name returns the job name
func (j *TickerRefreshJob) Name() string {
	return "ticker_refresh"
}

// Run executes the job
func (j *TickerRefreshJob) Run(ctx context.Context) error {
	updated, err := j.tickers.RefreshTickers(ctx)
	if err != nil {
		return err
	}
	j.log.Info().Int("updated", updated).Msg("ticker names refreshed")
	return nil
}
