package request

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
)

// MaxPageSize caps page_size on transaction listings.
const MaxPageSize = 100

// Pagination is an optional offset/limit pair. A zero Limit means no limit.
type Pagination struct {
	Offset int
	Limit  int
}

// ParsePagination validates the page (offset) and page_size (limit) query parameters.
// Both are optional; page must be >= 0 and page_size between 1 and MaxPageSize.
func ParsePagination(pageParam, pageSizeParam string) (Pagination, error) {
	var p Pagination

	if pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil {
			return p, fmt.Errorf("invalid page: must be a number")
		}
		if page < 0 {
			return p, fmt.Errorf("invalid page: must be >= 0")
		}
		p.Offset = page
	}

	if pageSizeParam != "" {
		size, err := strconv.Atoi(pageSizeParam)
		if err != nil {
			return p, fmt.Errorf("invalid page_size: must be a number")
		}
		if size < 1 || size > MaxPageSize {
			return p, fmt.Errorf("invalid page_size: must be between 1 and %d", MaxPageSize)
		}
		p.Limit = size
	}

	return p, nil
}

// ParseOptionalDate parses a YYYY-MM-DD query parameter. An empty value returns nil.
func ParseOptionalDate(param string) (*time.Time, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", param)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidDate, param)
	}
	return &date, nil
}

// ParseYearMonth validates the year and month query parameters of a monthly snapshot.
func ParseYearMonth(yearParam, monthParam string) (int, time.Month, error) {
	year, err := strconv.Atoi(yearParam)
	if err != nil || year < 1970 || year > 9999 {
		return 0, 0, fmt.Errorf("%w: invalid year %q", apperrors.ErrInvalidDateRange, yearParam)
	}
	month, err := strconv.Atoi(monthParam)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("%w: invalid month %q", apperrors.ErrInvalidDateRange, monthParam)
	}
	return year, time.Month(month), nil
}

// ParseTransactionID parses a transaction path parameter.
func ParseTransactionID(param string) (int64, error) {
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTransactionID, param)
	}
	return id, nil
}
