package model

import (
	"sort"
	"time"
)

// PricePoint is a daily close for one ticker.
type PricePoint struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
}

// PriceHistory is a ticker's daily closes sorted by date ascending.
// Non-trading days are absent rather than zero.
type PriceHistory []PricePoint

// CloseAsOf returns the most recent point dated on or before date.
// Points after date are never considered.
func (p PriceHistory) CloseAsOf(date time.Time) (PricePoint, bool) {
	day := truncateDay(date)
	// first index strictly after day
	i := sort.Search(len(p), func(i int) bool { return truncateDay(p[i].Date).After(day) })
	if i == 0 {
		return PricePoint{}, false
	}
	return p[i-1], true
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
