package service

import (
	"context"
	"fmt"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
)

// HoldingsService answers holdings questions for one user from the ledger.
type HoldingsService struct {
	transactionRepo *repository.TransactionRepository
}

// NewHoldingsService creates a new HoldingsService with the provided repository dependencies.
func NewHoldingsService(transactionRepo *repository.TransactionRepository) *HoldingsService {
	return &HoldingsService{
		transactionRepo: transactionRepo,
	}
}

// HoldingsOnDate returns the net quantity per ticker on date, including zero and negative
// quantities. Callers that present holdings should use VisibleHoldingsOnDate.
func (s *HoldingsService) HoldingsOnDate(ctx context.Context, userID int64, date time.Time) (model.Holdings, error) {
	txs, err := s.transactionRepo.ListTransactionsUntil(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}
	return model.NewHoldings(HoldingsAt(txs, date)), nil
}

// VisibleHoldingsOnDate returns the tickers held on date with a strictly positive quantity.
func (s *HoldingsService) VisibleHoldingsOnDate(ctx context.Context, userID int64, date time.Time) (model.Holdings, error) {
	txs, err := s.transactionRepo.ListTransactionsUntil(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}
	return VisibleHoldings(HoldingsAt(txs, date)), nil
}

// HoldingsChangeSeries returns the dates on which the user's visible holdings changed, up to today.
func (s *HoldingsService) HoldingsChangeSeries(ctx context.Context, userID int64) ([]model.HoldingsChange, error) {
	txs, err := s.transactionRepo.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}
	return HoldingsChangeSeries(txs, today()), nil
}

// TickerQuantitySeries returns the cumulative net quantity of one ticker after each date it was traded.
func (s *HoldingsService) TickerQuantitySeries(ctx context.Context, userID int64, ticker string) ([]model.TickerQuantity, error) {
	series, err := s.transactionRepo.GetTickerQuantitySeries(ctx, userID, ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}
	return series, nil
}

// Tickers returns the distinct tickers the user has traded.
func (s *HoldingsService) Tickers(ctx context.Context, userID int64) ([]string, error) {
	tickers, err := s.transactionRepo.ListTickers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTickers, err)
	}
	return tickers, nil
}
