package request

import (
	"errors"
	"testing"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
)

func TestParsePagination(t *testing.T) {
	t.Run("no parameters means everything", func(t *testing.T) {
		p, err := ParsePagination("", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if p.Offset != 0 || p.Limit != 0 {
			t.Errorf("Expected zero pagination, got %+v", p)
		}
	})

	t.Run("page and page_size", func(t *testing.T) {
		p, err := ParsePagination("20", "10")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if p.Offset != 20 || p.Limit != 10 {
			t.Errorf("Expected offset 20 limit 10, got %+v", p)
		}
	})

	tests := []struct {
		name     string
		page     string
		pageSize string
	}{
		{"negative page", "-1", ""},
		{"non numeric page", "abc", ""},
		{"page_size above maximum", "", "101"},
		{"page_size zero", "", "0"},
		{"non numeric page_size", "", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePagination(tt.page, tt.pageSize); err == nil {
				t.Errorf("Expected error for page=%q page_size=%q", tt.page, tt.pageSize)
			}
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	t.Run("empty is nil", func(t *testing.T) {
		date, err := ParseOptionalDate("")
		if err != nil || date != nil {
			t.Errorf("Expected nil date and error, got %v, %v", date, err)
		}
	})

	t.Run("valid date", func(t *testing.T) {
		date, err := ParseOptionalDate("2024-03-15")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		if !date.Equal(want) {
			t.Errorf("Expected %v, got %v", want, *date)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := ParseOptionalDate("15/03/2024")
		if !errors.Is(err, apperrors.ErrInvalidDate) {
			t.Errorf("Expected ErrInvalidDate, got %v", err)
		}
	})
}

func TestParseYearMonth(t *testing.T) {
	year, month, err := ParseYearMonth("2024", "2")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if year != 2024 || month != time.February {
		t.Errorf("Expected 2024-02, got %d-%d", year, month)
	}

	for _, params := range [][2]string{{"2024", "13"}, {"2024", "0"}, {"abc", "1"}, {"", ""}} {
		if _, _, err := ParseYearMonth(params[0], params[1]); !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange for %v, got %v", params, err)
		}
	}
}

func TestParseTransactionID(t *testing.T) {
	id, err := ParseTransactionID("42")
	if err != nil || id != 42 {
		t.Errorf("Expected 42, got %d (%v)", id, err)
	}

	for _, param := range []string{"0", "-3", "abc", ""} {
		if _, err := ParseTransactionID(param); !errors.Is(err, apperrors.ErrInvalidTransactionID) {
			t.Errorf("Expected ErrInvalidTransactionID for %q, got %v", param, err)
		}
	}
}
