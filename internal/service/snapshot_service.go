package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/rs/zerolog"
)

// SnapshotService writes the daily valuation of every user into pea_history.
//
// A run loads the ledgers of all users at once, fetches prices for the union of their
// tickers in one bulk call, then values each user independently against that shared
// price set. All rows of a run are written in a single transaction.
type SnapshotService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	historyRepo     *repository.HistoryRepository
	oracle          *PriceOracle
	log             zerolog.Logger
}

// NewSnapshotService creates a new SnapshotService with the provided dependencies.
func NewSnapshotService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	historyRepo *repository.HistoryRepository,
	oracle *PriceOracle,
	log zerolog.Logger,
) *SnapshotService {
	return &SnapshotService{
		db:              db,
		transactionRepo: transactionRepo,
		historyRepo:     historyRepo,
		oracle:          oracle,
		log:             log.With().Str("component", "snapshot").Logger(),
	}
}

// RunDailySnapshot values every user's portfolio on target (yesterday when nil) and
// upserts one pea_history row per user. Rerunning for the same date overwrites the rows.
//
// Returns the number of users written.
func (s *SnapshotService) RunDailySnapshot(ctx context.Context, target *time.Time) (int, error) {
	date := today().AddDate(0, 0, -1)
	if target != nil {
		date = truncateDay(*target)
	}

	counts, err := s.run(ctx, date, date)
	if err != nil {
		return 0, err
	}
	return counts[0].Users, nil
}

// RunMonthlySnapshot runs the snapshot for every day of the month up to yesterday.
// Days from today onwards are skipped.
//
// Returns apperrors.ErrInvalidDateRange for a month outside 1-12 or a month with no past day.
func (s *SnapshotService) RunMonthlySnapshot(ctx context.Context, year int, month time.Month) ([]model.SnapshotCount, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", apperrors.ErrInvalidDateRange, month)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	if yesterday := today().AddDate(0, 0, -1); last.After(yesterday) {
		last = yesterday
	}
	if last.Before(first) {
		return nil, fmt.Errorf("%w: %d-%02d has no past day", apperrors.ErrInvalidDateRange, year, month)
	}

	return s.run(ctx, first, last)
}

// run snapshots every day in [first, last] using one ledger read, one bulk price fetch
// and one database transaction.
func (s *SnapshotService) run(ctx context.Context, first, last time.Time) ([]model.SnapshotCount, error) {
	started := time.Now()

	byUser, err := s.transactionRepo.ListAllTransactionsUntil(ctx, last)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRunSnapshot, err)
	}

	userIDs := make([]int64, 0, len(byUser))
	tickerSet := make(map[string]struct{})
	for userID, txs := range byUser {
		userIDs = append(userIDs, userID)
		for _, t := range txs {
			tickerSet[t.Ticker] = struct{}{}
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	tickers := make([]string, 0, len(tickerSet))
	for ticker := range tickerSet {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	start, end := s.oracle.Window(first, last)
	histories, err := s.oracle.FetchHistories(ctx, tickers, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRunSnapshot, err)
	}
	prices := s.oracle.NewCacheFromHistories(histories)

	sweepers := make(map[int64]*HoldingSweeper, len(userIDs))
	for _, userID := range userIDs {
		sweepers[userID] = NewHoldingSweeper(byUser[userID])
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrFailedToRunSnapshot, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	historyRepo := s.historyRepo.WithTx(tx)

	calculatedAt := time.Now().UTC()
	counts := []model.SnapshotCount{}
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		written := 0
		for _, userID := range userIDs {
			// users whose first trade is later than day have nothing to value yet
			if byUser[userID][0].DateOf.After(day) {
				continue
			}

			holdings := sweepers[userID].AdvanceTo(day)
			entry := model.PEAHistoryEntry{
				UserID:        userID,
				Date:          day,
				TotalInvested: valueHoldings(ctx, holdings, day, prices),
				CalculatedAt:  calculatedAt,
			}
			if err := historyRepo.UpsertEntry(ctx, entry); err != nil {
				return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRunSnapshot, err)
			}
			written++
		}
		counts = append(counts, model.SnapshotCount{Date: day, Users: written})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: failed to commit: %w", apperrors.ErrFailedToRunSnapshot, err)
	}

	s.log.Info().
		Str("from", first.Format(dateLayout)).
		Str("to", last.Format(dateLayout)).
		Int("users", len(userIDs)).
		Int("tickers", len(tickers)).
		Int("priced_tickers", len(histories)).
		Dur("duration", time.Since(started)).
		Msg("history snapshot written")

	return counts, nil
}
