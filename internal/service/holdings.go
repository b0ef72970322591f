package service

import (
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/model"
)

// QuantityPrecision is the number of decimals kept in visible holdings.
const QuantityPrecision = 6

// HoldingsAt folds every transaction dated on or before date into net quantities per ticker.
// Order of txs does not matter. Negative quantities are kept.
func HoldingsAt(txs []model.Transaction, date time.Time) map[string]float64 {
	day := truncateDay(date)
	holdings := make(map[string]float64)
	for _, t := range txs {
		if t.DateOf.After(day) {
			continue
		}
		holdings[t.Ticker] += t.SignedQuantity()
	}
	return holdings
}

// HoldingSweeper replays a sorted transaction list forward through time.
// Each transaction is applied exactly once, so sweeping a whole series costs O(n).
type HoldingSweeper struct {
	txs      []model.Transaction
	cursor   int
	holdings map[string]float64
}

// NewHoldingSweeper returns a sweeper positioned before the first transaction.
// txs must be in replay order (date ascending, then id).
func NewHoldingSweeper(txs []model.Transaction) *HoldingSweeper {
	return &HoldingSweeper{
		txs:      txs,
		holdings: make(map[string]float64),
	}
}

// AdvanceTo applies every remaining transaction dated on or before date and returns
// the running holdings. The returned map is owned by the sweeper and changes on the next call.
// Dates must not go backwards.
func (s *HoldingSweeper) AdvanceTo(date time.Time) map[string]float64 {
	day := truncateDay(date)
	for s.cursor < len(s.txs) && !s.txs[s.cursor].DateOf.After(day) {
		t := s.txs[s.cursor]
		s.holdings[t.Ticker] += t.SignedQuantity()
		s.cursor++
	}
	return s.holdings
}

// Done reports whether every transaction has been applied.
func (s *HoldingSweeper) Done() bool {
	return s.cursor >= len(s.txs)
}

// VisibleHoldings keeps strictly positive quantities rounded to QuantityPrecision decimals.
// Zero and negative holdings are not held.
func VisibleHoldings(holdings map[string]float64) model.Holdings {
	visible := make(map[string]float64, len(holdings))
	for ticker, qty := range holdings {
		rounded := roundTo(qty, QuantityPrecision)
		if rounded > 0 {
			visible[ticker] = rounded
		}
	}
	return model.NewHoldings(visible)
}

// HoldingsChangeSeries returns one row per date on which the visible holdings changed,
// considering transactions dated on or before end. txs must be in replay order.
// Dates where trades cancel out produce no row.
func HoldingsChangeSeries(txs []model.Transaction, end time.Time) []model.HoldingsChange {
	sweeper := NewHoldingSweeper(txs)
	changes := []model.HoldingsChange{}
	endDay := truncateDay(end)

	var previous model.Holdings
	for i := 0; i < len(txs); i++ {
		date := truncateDay(txs[i].DateOf)
		if date.After(endDay) {
			break
		}
		// several transactions can share a date; evaluate each date once
		if i+1 < len(txs) && truncateDay(txs[i+1].DateOf).Equal(date) {
			continue
		}

		current := VisibleHoldings(sweeper.AdvanceTo(date))
		if current.Equal(previous) {
			continue
		}
		changes = append(changes, model.HoldingsChange{Date: date, Tickers: current})
		previous = current
	}
	return changes
}
