package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/yahoo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PriceResult is the outcome of a price lookup: either a close or the reason there is none.
type PriceResult struct {
	point  model.PricePoint
	reason string
	ok     bool
}

// Ok wraps an available price.
func Ok(point model.PricePoint) PriceResult {
	return PriceResult{point: point, ok: true}
}

// Unavailable records why no price could be used.
func Unavailable(reason string) PriceResult {
	return PriceResult{reason: reason}
}

// OK reports whether a price is available.
func (r PriceResult) OK() bool { return r.ok }

// Close is the close price, or zero when unavailable.
func (r PriceResult) Close() float64 { return r.point.Close }

// Reason explains an unavailable result.
func (r PriceResult) Reason() string { return r.reason }

// priceFromHistory selects the close as of date, never one dated after it.
func priceFromHistory(history model.PriceHistory, date time.Time) PriceResult {
	if len(history) == 0 {
		return Unavailable("no price history")
	}
	point, ok := history.CloseAsOf(date)
	if !ok {
		return Unavailable(fmt.Sprintf("no close on or before %s", date.Format(dateLayout)))
	}
	return Ok(point)
}

// PriceOracle adapts the Yahoo Finance client into daily close histories.
type PriceOracle struct {
	client      yahoo.Client
	log         zerolog.Logger
	lookback    int
	concurrency int
}

// NewPriceOracle creates a PriceOracle.
//
// Parameters:
//   - client: Yahoo Finance client (real or mock)
//   - log: process logger, scoped to the oracle
//   - lookbackDays: trailing days requested before a valuation date, to cover weekends and holidays
//   - concurrency: maximum parallel requests during a bulk fetch
func NewPriceOracle(client yahoo.Client, log zerolog.Logger, lookbackDays, concurrency int) *PriceOracle {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &PriceOracle{
		client:      client,
		log:         log.With().Str("component", "price_oracle").Logger(),
		lookback:    lookbackDays,
		concurrency: concurrency,
	}
}

// Window returns the fetch range for valuations between from and to:
// lookback days before from, up to the day after to.
func (o *PriceOracle) Window(from, to time.Time) (time.Time, time.Time) {
	return truncateDay(from).AddDate(0, 0, -o.lookback), truncateDay(to).AddDate(0, 0, 1)
}

// FetchHistory returns the daily closes of ticker between start and end, ascending by date.
// An empty window yields an empty history and no error. An unknown ticker is reported
// by Yahoo as a chart error and returned as an error.
func (o *PriceOracle) FetchHistory(ctx context.Context, ticker string, start, end time.Time) (model.PriceHistory, error) {
	resp, err := o.client.QueryYahooSymbolByDateRange(ctx, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", ticker, err)
	}

	chart, err := o.client.ParseChart(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prices for %s: %w", ticker, err)
	}

	history := make(model.PriceHistory, 0, len(chart.Indicators))
	for _, ind := range chart.Indicators {
		history = append(history, model.PricePoint{
			Ticker: ticker,
			Date:   ind.Date,
			Close:  ind.PriceClose,
		})
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Date.Before(history[j].Date) })
	return history, nil
}

// FetchHistories fetches several tickers over the same range with bounded parallelism.
// A ticker that fails is logged and left out of the result; it never fails the batch.
// Only context cancellation is returned as an error.
func (o *PriceOracle) FetchHistories(ctx context.Context, tickers []string, start, end time.Time) (map[string]model.PriceHistory, error) {
	result := make(map[string]model.PriceHistory, len(tickers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, ticker := range tickers {
		g.Go(func() error {
			history, err := o.FetchHistory(gctx, ticker, start, end)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				o.log.Warn().Err(err).Str("ticker", ticker).Msg("price history unavailable")
				return nil
			}
			mu.Lock()
			result[ticker] = history
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// NewCache creates a price cache for one computation covering valuations between from and to.
func (o *PriceOracle) NewCache(from, to time.Time) *PriceCache {
	start, end := o.Window(from, to)
	return &PriceCache{
		oracle:    o,
		start:     start,
		end:       end,
		histories: make(map[string]cachedHistory),
	}
}

// NewCacheFromHistories creates a cache preloaded with histories, such as the result of a bulk fetch.
// Tickers missing from histories are reported unavailable without querying the source.
func (o *PriceOracle) NewCacheFromHistories(histories map[string]model.PriceHistory) *PriceCache {
	cache := &PriceCache{
		oracle:    o,
		histories: make(map[string]cachedHistory, len(histories)),
		offline:   true,
	}
	for ticker, history := range histories {
		cache.histories[ticker] = cachedHistory{history: history}
	}
	return cache
}

type cachedHistory struct {
	history model.PriceHistory
	err     error
}

// PriceCache memoizes one history per ticker for the duration of a single computation.
// It is not safe for concurrent use and must not outlive the computation that created it.
type PriceCache struct {
	oracle     *PriceOracle
	start, end time.Time
	histories  map[string]cachedHistory
	offline    bool
}

// PriceAsOf returns the close of ticker on date, or on the nearest prior trading day.
// The history of each ticker is fetched at most once per cache, failures included.
// Unavailable results are logged at warn level.
func (c *PriceCache) PriceAsOf(ctx context.Context, ticker string, date time.Time) PriceResult {
	entry, ok := c.histories[ticker]
	if !ok {
		if c.offline {
			entry = cachedHistory{err: errors.New("ticker missing from bulk fetch")}
		} else {
			history, err := c.oracle.FetchHistory(ctx, ticker, c.start, c.end)
			entry = cachedHistory{history: history, err: err}
		}
		c.histories[ticker] = entry
	}

	var result PriceResult
	if entry.err != nil {
		result = Unavailable(entry.err.Error())
	} else {
		result = priceFromHistory(entry.history, date)
	}

	if !result.OK() {
		c.oracle.log.Warn().
			Str("ticker", ticker).
			Str("date", date.Format(dateLayout)).
			Str("reason", result.Reason()).
			Msg("price unavailable, ticker contributes zero")
	}
	return result
}

// Fetched returns the number of distinct tickers held by the cache.
func (c *PriceCache) Fetched() int {
	return len(c.histories)
}

const dateLayout = "2006-01-02"
