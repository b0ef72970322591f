package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the body of POST /api/transaction/.
type CreateTransactionRequest struct {
	Type     string          `json:"type"`
	Ticker   string          `json:"ticker"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	DateOf   string          `json:"date_of"`
}
