package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ValuationService combines replayed holdings with market prices to value portfolios.
type ValuationService struct {
	transactionRepo *repository.TransactionRepository
	historyRepo     *repository.HistoryRepository
	oracle          *PriceOracle
	log             zerolog.Logger
}

// NewValuationService creates a new ValuationService with the provided dependencies.
func NewValuationService(
	transactionRepo *repository.TransactionRepository,
	historyRepo *repository.HistoryRepository,
	oracle *PriceOracle,
	log zerolog.Logger,
) *ValuationService {
	return &ValuationService{
		transactionRepo: transactionRepo,
		historyRepo:     historyRepo,
		oracle:          oracle,
		log:             log.With().Str("component", "valuation").Logger(),
	}
}

// valueHoldings sums price times quantity over positive holdings, rounded to cents.
// Tickers without a usable price contribute zero.
func valueHoldings(ctx context.Context, holdings map[string]float64, date time.Time, prices *PriceCache) float64 {
	tickers := make([]string, 0, len(holdings))
	for ticker, qty := range holdings {
		if qty > 0 {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)

	total := 0.0
	for _, ticker := range tickers {
		price := prices.PriceAsOf(ctx, ticker, date)
		if !price.OK() {
			continue
		}
		total += price.Close() * holdings[ticker]
	}
	return round(total)
}

// ValueOnDate returns the market value of a user's portfolio on date, rounded to cents.
//
// A nil date means today. Today is always computed live. A past date is served from
// pea_history when a snapshot exists, and computed live otherwise.
// Returns 0 when the user holds nothing on that date.
func (s *ValuationService) ValueOnDate(ctx context.Context, userID int64, date *time.Time) (float64, error) {
	target := today()
	if date != nil {
		target = truncateDay(*date)
	}

	if target.Before(today()) {
		entry, err := s.historyRepo.GetEntry(ctx, userID, target)
		if err == nil {
			return entry.TotalInvested, nil
		}
		if !errors.Is(err, apperrors.ErrHistoryEntryNotFound) {
			return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeValue, err)
		}
		s.log.Debug().Int64("user_id", userID).Str("date", target.Format(dateLayout)).Msg("no snapshot, computing live")
	}

	return s.liveValue(ctx, userID, target)
}

func (s *ValuationService) liveValue(ctx context.Context, userID int64, date time.Time) (float64, error) {
	txs, err := s.transactionRepo.ListTransactionsUntil(ctx, userID, date)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeValue, err)
	}

	holdings := HoldingsAt(txs, date)
	return valueHoldings(ctx, holdings, date, s.oracle.NewCache(date, date)), nil
}

// ValueSeries returns the portfolio value over the period named by token, ending today.
//
// The evaluated dates are the union of the holdings change points inside the range and a
// regular grid: every 7th day from the start when the span exceeds one month, otherwise
// one point per calendar month. The start and today are always included.
// Holdings are swept once and each ticker's prices are fetched once for the whole series.
//
// Returns apperrors.ErrInvalidPeriod when token is malformed.
func (s *ValuationService) ValueSeries(ctx context.Context, userID int64, token string) ([]model.ValuePoint, error) {
	period, err := ParsePeriod(token)
	if err != nil {
		return nil, err
	}

	end := today()
	start := period.Before(end)

	txs, err := s.transactionRepo.ListTransactionsUntil(ctx, userID, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeHistory, err)
	}

	dates := seriesDates(txs, start, end)
	sweeper := NewHoldingSweeper(txs)
	prices := s.oracle.NewCache(start, end)

	points := make([]model.ValuePoint, 0, len(dates))
	for _, date := range dates {
		holdings := sweeper.AdvanceTo(date)
		points = append(points, model.ValuePoint{
			Date:  date,
			Value: valueHoldings(ctx, holdings, date, prices),
		})
	}

	s.log.Debug().
		Int64("user_id", userID).
		Str("period", period.String()).
		Int("points", len(points)).
		Int("tickers", prices.Fetched()).
		Msg("value series computed")

	return points, nil
}

// seriesDates returns the sorted, de-duplicated evaluation dates between start and end.
func seriesDates(txs []model.Transaction, start, end time.Time) []time.Time {
	start, end = truncateDay(start), truncateDay(end)
	dates := []time.Time{start, end}

	for _, change := range HoldingsChangeSeries(txs, end) {
		if !change.Date.Before(start) {
			dates = append(dates, change.Date)
		}
	}

	// weekly when the span exceeds one calendar month, monthly otherwise
	if addMonths(end, -1).After(start) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 7) {
			dates = append(dates, d)
		}
	} else {
		for i := 0; ; i++ {
			d := addMonths(start, i)
			if d.After(end) {
				break
			}
			dates = append(dates, d)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	unique := dates[:0]
	for i, d := range dates {
		if i > 0 && d.Equal(unique[len(unique)-1]) {
			continue
		}
		unique = append(unique, d)
	}
	return unique
}

// TotalInvested returns the cost basis of a user's ledger: the sum of buy amounts minus
// the sum of sell amounts, rounded to cents. Market prices are not involved.
func (s *ValuationService) TotalInvested(ctx context.Context, userID int64) (float64, error) {
	txs, err := s.transactionRepo.ListTransactions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return costBasis(txs).Round(2).InexactFloat64(), nil
}

func costBasis(txs []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		switch t.Type {
		case model.TransactionTypeBuy:
			total = total.Add(t.Amount())
		case model.TransactionTypeSell:
			total = total.Sub(t.Amount())
		}
	}
	return total
}

// Summary returns today's value against the cost basis and yesterday's value,
// with EUR display strings.
func (s *ValuationService) Summary(ctx context.Context, userID int64) (model.ValueSummary, error) {
	value, err := s.ValueOnDate(ctx, userID, nil)
	if err != nil {
		return model.ValueSummary{}, err
	}

	yesterday := today().AddDate(0, 0, -1)
	previous, err := s.ValueOnDate(ctx, userID, &yesterday)
	if err != nil {
		return model.ValueSummary{}, err
	}

	invested, err := s.TotalInvested(ctx, userID)
	if err != nil {
		return model.ValueSummary{}, err
	}

	gain := round(value - invested)
	change := round(value - previous)

	return model.ValueSummary{
		Value:           value,
		Invested:        invested,
		Gain:            gain,
		GainPercent:     percentOf(gain, invested),
		PreviousValue:   previous,
		Change:          change,
		ChangePercent:   percentOf(change, previous),
		ValueDisplay:    displayEUR(value),
		InvestedDisplay: displayEUR(invested),
		GainDisplay:     displayEUR(gain),
		ChangeDisplay:   displayEUR(change),
	}, nil
}

func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round(part / whole * 100)
}

// displayEUR formats an amount as euros, e.g. "€1,234.50".
func displayEUR(amount float64) string {
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return money.New(cents, money.EUR).Display()
}

// SeriesStats summarises a value series. An empty series yields zero stats.
func SeriesStats(points []model.ValuePoint) model.SeriesStats {
	if len(points) == 0 {
		return model.SeriesStats{}
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	first, last := values[0], values[len(values)-1]
	return model.SeriesStats{
		Start:  points[0].Date,
		End:    points[len(points)-1].Date,
		Points: len(points),
		First:  first,
		Last:   last,
		High:   floats.Max(values),
		Low:    floats.Min(values),
		Mean:   round(stat.Mean(values, nil)),
		Change: round(last - first),
	}
}

// SnapshotSeries returns the persisted daily valuations of a user over the period named
// by token, ending today. Days the snapshot job has not written are absent.
//
// Returns apperrors.ErrInvalidPeriod when token is malformed.
func (s *ValuationService) SnapshotSeries(ctx context.Context, userID int64, token string) ([]model.ValuePoint, error) {
	period, err := ParsePeriod(token)
	if err != nil {
		return nil, err
	}

	end := today()
	points := []model.ValuePoint{}
	err = s.historyRepo.GetHistory(ctx, userID, period.Before(end), end, func(entry model.PEAHistoryEntry) error {
		points = append(points, model.ValuePoint{Date: entry.Date, Value: entry.TotalInvested})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeHistory, err)
	}
	return points, nil
}
