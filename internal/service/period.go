package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
)

// PeriodUnit is the suffix of a period token.
type PeriodUnit byte

const (
	PeriodDays   PeriodUnit = 'd'
	PeriodWeeks  PeriodUnit = 'w'
	PeriodMonths PeriodUnit = 'm'
	PeriodYears  PeriodUnit = 'y'
)

// maxPeriodDays bounds a period to roughly a century.
const maxPeriodDays = 36525

// Period is a look-back span such as "10d" or "2m".
type Period struct {
	Count int
	Unit  PeriodUnit
}

// ParsePeriod parses a token of the form <integer><unit> where unit is one of d, w, m or y.
// There is no default unit. Returns apperrors.ErrInvalidPeriod on any malformed token
// or a span longer than about a century.
func ParsePeriod(token string) (Period, error) {
	if len(token) < 2 {
		return Period{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidPeriod, token)
	}

	unit := PeriodUnit(token[len(token)-1])
	switch unit {
	case PeriodDays, PeriodWeeks, PeriodMonths, PeriodYears:
	default:
		return Period{}, fmt.Errorf("%w: unknown unit in %q", apperrors.ErrInvalidPeriod, token)
	}

	digits := token[:len(token)-1]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Period{}, fmt.Errorf("%w: %q is not a count", apperrors.ErrInvalidPeriod, digits)
		}
	}
	count, err := strconv.Atoi(digits)
	if err != nil || count > maxPeriodDays {
		return Period{}, fmt.Errorf("%w: %q is out of range", apperrors.ErrInvalidPeriod, digits)
	}

	p := Period{Count: count, Unit: unit}
	if p.approxDays() > maxPeriodDays {
		return Period{}, fmt.Errorf("%w: %q exceeds 100 years", apperrors.ErrInvalidPeriod, token)
	}
	return p, nil
}

// Before returns t moved back by the period. Days and weeks are fixed lengths;
// months and years follow the calendar, clamping to the end of a shorter month.
func (p Period) Before(t time.Time) time.Time {
	switch p.Unit {
	case PeriodWeeks:
		return t.AddDate(0, 0, -7*p.Count)
	case PeriodMonths:
		return addMonths(t, -p.Count)
	case PeriodYears:
		return addMonths(t, -12*p.Count)
	default:
		return t.AddDate(0, 0, -p.Count)
	}
}

func (p Period) approxDays() int {
	switch p.Unit {
	case PeriodWeeks:
		return 7 * p.Count
	case PeriodMonths:
		return 30 * p.Count
	case PeriodYears:
		return 365 * p.Count
	default:
		return p.Count
	}
}

func (p Period) String() string {
	return strconv.Itoa(p.Count) + string(p.Unit)
}
