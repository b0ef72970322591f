package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
)

// TransactionService handles ledger reads and writes scoped to the owning user.
type TransactionService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	tickerRepo      *repository.TickerRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	tickerRepo *repository.TickerRepository,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		tickerRepo:      tickerRepo,
	}
}

// ListTransactions returns a page of the user's transactions in replay order.
func (s *TransactionService) ListTransactions(ctx context.Context, userID int64, page request.Pagination) ([]model.Transaction, error) {
	return s.transactionRepo.ListTransactionsPage(ctx, userID, page.Limit, page.Offset)
}

// CountTransactions returns how many transactions the user owns.
func (s *TransactionService) CountTransactions(ctx context.Context, userID int64) (int, error) {
	return s.transactionRepo.CountTransactions(ctx, userID)
}

// GetTransaction retrieves a single transaction owned by userID.
//
// Returns:
//   - apperrors.ErrTransactionNotFound if no transaction has that ID
//   - apperrors.ErrForbidden if it belongs to another user
func (s *TransactionService) GetTransaction(ctx context.Context, userID, transactionID int64) (model.Transaction, error) {
	t, err := s.transactionRepo.GetTransaction(ctx, transactionID)
	if err != nil {
		return model.Transaction{}, err
	}
	if t.UserID != userID {
		return model.Transaction{}, apperrors.ErrForbidden
	}
	return t, nil
}

// CreateTransaction records a buy or sell for userID. The ticker metadata row is created
// when missing, in the same database transaction as the insert; any failure rolls both back.
// The request must already be validated.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID int64, req request.CreateTransactionRequest) (*model.Transaction, error) {
	dateOf, err := time.Parse("2006-01-02", req.DateOf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidDate, req.DateOf)
	}

	transaction := &model.Transaction{
		UserID:   userID,
		Type:     model.TransactionType(req.Type),
		Ticker:   strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Quantity: req.Quantity,
		Price:    req.Price,
		DateOf:   dateOf,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateTransaction, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := s.tickerRepo.WithTx(tx).EnsureTicker(ctx, transaction.Ticker); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateTransaction, err)
	}

	if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, transaction); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateTransaction, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToCreateTransaction, err)
	}

	return transaction, nil
}
