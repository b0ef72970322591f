package service

import (
	"math"
	"time"
)

// RoundingPrecision scales monetary values to cents before rounding.
const RoundingPrecision = 100.0

// round rounds a float64 value to two decimal places using the package RoundingPrecision constant.
// This function is used throughout the service layer to ensure consistent rounding of monetary
// values in API responses.
//
// The rounding uses the standard "round half away from zero" approach via math.Round.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// roundTo rounds value to the given number of decimals.
func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

// truncateDay returns midnight UTC of t's calendar day.
func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// addMonths moves t by n calendar months, clamping the day to the last day of the
// target month: one month before March 31 is February 29 (or 28).
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), last)-1)
}

// today is the current UTC date. Tests replace it to pin the clock.
var today = func() time.Time {
	return truncateDay(time.Now())
}

// Today returns the current date as the service layer sees it.
func Today() time.Time {
	return today()
}
