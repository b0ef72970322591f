package model

import "time"

// PEAHistoryEntry is the persisted valuation of one user's portfolio on one date.
// There is at most one entry per (UserID, Date).
type PEAHistoryEntry struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	Date          time.Time `json:"date"`
	TotalInvested float64   `json:"total_invested"`
	CalculatedAt  time.Time `json:"calculated_at"`
}

// ValuePoint is the portfolio market value on a date.
type ValuePoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SnapshotCount reports how many users were written for a snapshot date.
type SnapshotCount struct {
	Date  time.Time `json:"date"`
	Users int       `json:"users"`
}

// ValueSummary is the dashboard view of a portfolio: current value against cost basis and yesterday.
type ValueSummary struct {
	Value           float64 `json:"value"`
	Invested        float64 `json:"invested"`
	Gain            float64 `json:"gain"`
	GainPercent     float64 `json:"gain_percent"`
	PreviousValue   float64 `json:"previous_value"`
	Change          float64 `json:"change"`
	ChangePercent   float64 `json:"change_percent"`
	ValueDisplay    string  `json:"value_display"`
	InvestedDisplay string  `json:"invested_display"`
	GainDisplay     string  `json:"gain_display"`
	ChangeDisplay   string  `json:"change_display"`
}

// SeriesStats summarises a value series.
type SeriesStats struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Points int       `json:"points"`
	First  float64   `json:"first"`
	Last   float64   `json:"last"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Mean   float64   `json:"mean"`
	Change float64   `json:"change"`
}
