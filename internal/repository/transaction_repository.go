package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// Every list it returns is in replay order: date_of ascending, then id ascending.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionColumns = `id, user_id, type, ticker, quantity, price, date_of`

// ListTransactions returns every transaction of a user in replay order.
func (r *TransactionRepository) ListTransactions(ctx context.Context, userID int64) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE user_id = ?
		ORDER BY date_of ASC, id ASC
	`
	return r.queryTransactions(ctx, query, userID)
}

// ListTransactionsUntil returns the transactions of a user dated on or before date, in replay order.
func (r *TransactionRepository) ListTransactionsUntil(ctx context.Context, userID int64, date time.Time) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE user_id = ?
		AND date_of <= ?
		ORDER BY date_of ASC, id ASC
	`
	return r.queryTransactions(ctx, query, userID, formatDate(date))
}

// ListTransactionsPage returns a page of a user's transactions.
// A limit of zero or less returns everything from offset onwards.
func (r *TransactionRepository) ListTransactionsPage(ctx context.Context, userID int64, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE user_id = ?
		ORDER BY date_of ASC, id ASC
		LIMIT ? OFFSET ?
	`
	return r.queryTransactions(ctx, query, userID, limit, offset)
}

// ListAllTransactionsUntil retrieves the transactions of every user dated on or before date.
//
// Returns a map of userID -> []Transaction, each slice in replay order. The grouping
// lets the snapshot job replay each user independently from a single query.
func (r *TransactionRepository) ListAllTransactionsUntil(ctx context.Context, date time.Time) (map[int64][]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE date_of <= ?
		ORDER BY user_id ASC, date_of ASC, id ASC
	`
	transactions, err := r.queryTransactions(ctx, query, formatDate(date))
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]model.Transaction)
	for _, t := range transactions {
		byUser[t.UserID] = append(byUser[t.UserID], t)
	}
	return byUser, nil
}

// CountTransactions returns the number of transactions owned by a user.
func (r *TransactionRepository) CountTransactions(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(id) FROM "transaction" WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// GetTransaction retrieves a single transaction regardless of owner.
// Returns apperrors.ErrTransactionNotFound when no row matches.
func (r *TransactionRepository) GetTransaction(ctx context.Context, id int64) (model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM "transaction" WHERE id = ?`

	t, err := scanTransaction(r.getQuerier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, err
	}
	return t, nil
}

// InsertTransaction stores t and sets its ID.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (user_id, type, ticker, quantity, price, date_of)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		t.UserID,
		string(t.Type),
		t.Ticker,
		t.Quantity,
		t.Price.InexactFloat64(),
		formatDate(t.DateOf),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get transaction id: %w", err)
	}
	t.ID = id
	return nil
}

// ListTickers returns the distinct tickers a user has transacted, sorted.
func (r *TransactionRepository) ListTickers(ctx context.Context, userID int64) ([]string, error) {
	return r.queryStrings(ctx, `SELECT DISTINCT ticker FROM "transaction" WHERE user_id = ? ORDER BY ticker`, userID)
}

// ListAllTickers returns the distinct tickers across all users, sorted.
func (r *TransactionRepository) ListAllTickers(ctx context.Context) ([]string, error) {
	return r.queryStrings(ctx, `SELECT DISTINCT ticker FROM "transaction" ORDER BY ticker`)
}

// GetTickerQuantitySeries returns, for each date a user traded ticker, the cumulative
// net quantity after that date's transactions.
func (r *TransactionRepository) GetTickerQuantitySeries(ctx context.Context, userID int64, ticker string) ([]model.TickerQuantity, error) {
	query := `
		WITH daily AS (
			SELECT date_of,
			       SUM(CASE WHEN type = 'buy' THEN quantity ELSE -quantity END) AS daily_change
			FROM "transaction"
			WHERE user_id = ?
			AND ticker = ?
			GROUP BY date_of
		)
		SELECT date_of, SUM(daily_change) OVER (ORDER BY date_of) AS cumulative_quantity
		FROM daily
		ORDER BY date_of
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, userID, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticker quantities: %w", err)
	}
	defer rows.Close()

	series := []model.TickerQuantity{}
	for rows.Next() {
		var dateStr string
		var point model.TickerQuantity
		if err := rows.Scan(&dateStr, &point.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan ticker quantity: %w", err)
		}
		point.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		series = append(series, point)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ticker quantities: %w", err)
	}
	return series, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}
	return transactions, nil
}

func (r *TransactionRepository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickers: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		values = append(values, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickers: %w", err)
	}
	return values, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var txType, dateStr string

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&txType,
		&t.Ticker,
		&t.Quantity,
		&t.Price,
		&dateStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return t, err
	}
	if err != nil {
		return t, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	t.Type = model.TransactionType(txType)
	t.DateOf, err = ParseTime(dateStr)
	if err != nil || t.DateOf.IsZero() {
		return t, fmt.Errorf("failed to parse date: %w", err)
	}
	return t, nil
}
