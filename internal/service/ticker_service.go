package service

import (
	"context"
	"fmt"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/peasy-money/peasy-money-backend/internal/yahoo"
	"github.com/rs/zerolog"
)

// TickerService maintains the ticker display-name cache.
type TickerService struct {
	tickerRepo      *repository.TickerRepository
	transactionRepo *repository.TransactionRepository
	yahooClient     yahoo.Client
	log             zerolog.Logger
}

// NewTickerService creates a new TickerService with the provided dependencies.
func NewTickerService(
	tickerRepo *repository.TickerRepository,
	transactionRepo *repository.TransactionRepository,
	yahooClient yahoo.Client,
	log zerolog.Logger,
) *TickerService {
	return &TickerService{
		tickerRepo:      tickerRepo,
		transactionRepo: transactionRepo,
		yahooClient:     yahooClient,
		log:             log.With().Str("component", "tickers").Logger(),
	}
}

// ListTickers returns the cached tickers as a display name to symbol map.
func (s *TickerService) ListTickers(ctx context.Context) (map[string]string, error) {
	tickers, err := s.tickerRepo.ListTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTickers, err)
	}

	names := make(map[string]string, len(tickers))
	for _, t := range tickers {
		names[t.Name] = t.Symbol
	}
	return names, nil
}

// RefreshTickers looks up the display name of every traded ticker and stores it.
// A ticker whose lookup fails keeps its current name; the failure is logged.
//
// Returns the number of tickers updated.
func (s *TickerService) RefreshTickers(ctx context.Context) (int, error) {
	symbols, err := s.transactionRepo.ListAllTickers(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshTickers, err)
	}

	updated := 0
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		resp, err := s.yahooClient.QueryYahooFiveDaySymbol(ctx, symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", symbol).Msg("ticker lookup failed")
			continue
		}
		chart, err := s.yahooClient.ParseChart(resp)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", symbol).Msg("ticker lookup returned no chart")
			continue
		}

		name := chart.DisplayName()
		if name == "" {
			s.log.Warn().Str("ticker", symbol).Msg("ticker has no display name")
			continue
		}

		if err := s.tickerRepo.UpsertTickerName(ctx, symbol, name); err != nil {
			return updated, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshTickers, err)
		}
		updated++
	}

	s.log.Info().Int("tickers", len(symbols)).Int("updated", updated).Msg("ticker names refreshed")
	return updated, nil
}
