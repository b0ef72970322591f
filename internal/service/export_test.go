package service

import (
	"testing"
	"time"
)

// PinToday fixes the service clock to day until the test ends.
func PinToday(t testing.TB, day time.Time) {
	t.Helper()

	previous := today
	today = func() time.Time { return truncateDay(day) }
	t.Cleanup(func() { today = previous })
}
