package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/peasy-money/peasy-money-backend/internal/model"
)

// TickerRepository provides data access methods for the ticker metadata table.
type TickerRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTickerRepository creates a new TickerRepository with the provided database connection.
func NewTickerRepository(db *sql.DB) *TickerRepository {
	return &TickerRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *TickerRepository) WithTx(tx *sql.Tx) *TickerRepository {
	return &TickerRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TickerRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ListTickers returns all ticker metadata ordered by symbol.
func (r *TickerRepository) ListTickers(ctx context.Context) ([]model.Ticker, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT id, symbol, name FROM ticker ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticker table: %w", err)
	}
	defer rows.Close()

	tickers := []model.Ticker{}
	for rows.Next() {
		var t model.Ticker
		if err := rows.Scan(&t.ID, &t.Symbol, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticker table: %w", err)
	}
	return tickers, nil
}

// EnsureTicker inserts a ticker row named after its symbol when none exists yet.
// An existing row, and its name, is left untouched.
func (r *TickerRepository) EnsureTicker(ctx context.Context, symbol string) error {
	_, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO ticker (id, symbol, name) VALUES (?, ?, ?) ON CONFLICT(symbol) DO NOTHING`,
		uuid.New().String(), symbol, symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure ticker %s: %w", symbol, err)
	}
	return nil
}

// UpsertTickerName sets the display name of symbol, creating the row if needed.
func (r *TickerRepository) UpsertTickerName(ctx context.Context, symbol, name string) error {
	_, err := r.getQuerier().ExecContext(ctx,
		`INSERT INTO ticker (id, symbol, name) VALUES (?, ?, ?)
		 ON CONFLICT(symbol) DO UPDATE SET name = excluded.name`,
		uuid.New().String(), symbol, name,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ticker %s: %w", symbol, err)
	}
	return nil
}
