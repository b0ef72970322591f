package model

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// Holding is the net quantity of one ticker.
type Holding struct {
	Ticker   string
	Quantity float64
}

// Holdings is a ticker-to-quantity mapping kept sorted by ticker, so iteration,
// comparison and JSON output are deterministic.
type Holdings []Holding

// NewHoldings builds sorted Holdings from an unordered mapping.
func NewHoldings(quantities map[string]float64) Holdings {
	h := make(Holdings, 0, len(quantities))
	for ticker, qty := range quantities {
		h = append(h, Holding{Ticker: ticker, Quantity: qty})
	}
	sort.Slice(h, func(i, j int) bool { return h[i].Ticker < h[j].Ticker })
	return h
}

// Get returns the quantity held for ticker and whether the ticker is present.
func (h Holdings) Get(ticker string) (float64, bool) {
	i := sort.Search(len(h), func(i int) bool { return h[i].Ticker >= ticker })
	if i < len(h) && h[i].Ticker == ticker {
		return h[i].Quantity, true
	}
	return 0, false
}

// Tickers returns the tickers in sorted order.
func (h Holdings) Tickers() []string {
	out := make([]string, len(h))
	for i, e := range h {
		out[i] = e.Ticker
	}
	return out
}

// Equal reports whether both holdings list the same tickers with identical quantities.
func (h Holdings) Equal(other Holdings) bool {
	if len(h) != len(other) {
		return false
	}
	for i := range h {
		if h[i] != other[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the holdings as a JSON object with keys in ticker order.
func (h Holdings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Ticker)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Quantity)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of ticker quantities.
func (h *Holdings) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*h = NewHoldings(raw)
	return nil
}

// HoldingsChange is one row of the holdings change series: the visible holdings
// from Date onwards, until the next row.
type HoldingsChange struct {
	Date    time.Time `json:"date"`
	Tickers Holdings  `json:"tickers"`
}
