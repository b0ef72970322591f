package validation

import (
	"fmt"
	"strings"

	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/model"
)

// MaxTickerLength bounds the ticker symbol of a transaction.
const MaxTickerLength = 20

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - type: Must be one of: buy, sell
//   - ticker: Must be non-empty, without spaces
//   - quantity: Must be positive
//   - price: Must be positive
//   - date_of: Must be in YYYY-MM-DD format
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Type) == "" {
		errors["type"] = "type is required"
	} else if !model.TransactionType(req.Type).Valid() {
		errors["type"] = fmt.Sprintf("invalid type: %s", req.Type)
	}

	ticker := strings.TrimSpace(req.Ticker)
	switch {
	case ticker == "":
		errors["ticker"] = "ticker is required"
	case strings.ContainsAny(ticker, " \t"):
		errors["ticker"] = "ticker cannot contain spaces"
	case len(ticker) > MaxTickerLength:
		errors["ticker"] = fmt.Sprintf("ticker cannot exceed %d characters", MaxTickerLength)
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if strings.TrimSpace(req.DateOf) == "" {
		errors["date_of"] = "date_of is required"
	} else if err := ValidateDate(req.DateOf); err != nil {
		errors["date_of"] = err.Error()
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
