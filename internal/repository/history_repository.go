package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
)

// HistoryRepository provides data access methods for the pea_history table, the durable
// cache of one valuation per user per day written by the snapshot job.
type HistoryRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHistoryRepository creates a new repository instance.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *HistoryRepository) WithTx(tx *sql.Tx) *HistoryRepository {
	return &HistoryRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HistoryRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetEntry returns the cached valuation of a user on date.
// Returns apperrors.ErrHistoryEntryNotFound when no row exists.
func (r *HistoryRepository) GetEntry(ctx context.Context, userID int64, date time.Time) (model.PEAHistoryEntry, error) {
	query := `
		SELECT id, user_id, date, total_invested, calculated_at
		FROM pea_history
		WHERE user_id = ?
		AND date = ?
	`
	entry, err := scanHistoryEntry(r.getQuerier().QueryRowContext(ctx, query, userID, formatDate(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.PEAHistoryEntry{}, apperrors.ErrHistoryEntryNotFound
	}
	return entry, err
}

// UpsertEntry writes the valuation of entry.UserID on entry.Date, overwriting any existing row
// for that pair. The stored row keeps its original id.
func (r *HistoryRepository) UpsertEntry(ctx context.Context, entry model.PEAHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CalculatedAt.IsZero() {
		entry.CalculatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO pea_history (id, user_id, date, total_invested, calculated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			total_invested = excluded.total_invested,
			calculated_at = excluded.calculated_at
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		formatDate(entry.Date),
		entry.TotalInvested,
		entry.CalculatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pea_history for user %d on %s: %w", entry.UserID, formatDate(entry.Date), err)
	}
	return nil
}

// GetHistory streams the cached valuations of a user between startDate and endDate (inclusive),
// ordered by date, calling callback once per row.
//
// Returns an error if the query fails or if the callback returns an error during processing.
func (r *HistoryRepository) GetHistory(
	ctx context.Context,
	userID int64,
	startDate, endDate time.Time,
	callback func(entry model.PEAHistoryEntry) error,
) error {
	query := `
		SELECT id, user_id, date, total_invested, calculated_at
		FROM pea_history
		WHERE user_id = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, userID, formatDate(startDate), formatDate(endDate))
	if err != nil {
		return fmt.Errorf("failed to query pea_history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return err
		}
		if err := callback(entry); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	return nil
}

func scanHistoryEntry(row rowScanner) (model.PEAHistoryEntry, error) {
	var entry model.PEAHistoryEntry
	var dateStr, calculatedAtStr string

	err := row.Scan(&entry.ID, &entry.UserID, &dateStr, &entry.TotalInvested, &calculatedAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return entry, err
	}
	if err != nil {
		return entry, fmt.Errorf("failed to scan row: %w", err)
	}

	entry.Date, err = ParseTime(dateStr)
	if err != nil {
		return entry, fmt.Errorf("failed to parse date: %w", err)
	}

	entry.CalculatedAt, err = ParseTime(calculatedAtStr)
	if err != nil {
		return entry, fmt.Errorf("failed to parse calculated_at: %w", err)
	}
	return entry, nil
}
