package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "buy"
	TransactionTypeSell TransactionType = "sell"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeBuy || t == TransactionTypeSell
}

// Sign returns +1 for buys and -1 for sells, so quantity*Sign() is the net effect on holdings.
func (t TransactionType) Sign() float64 {
	if t == TransactionTypeSell {
		return -1
	}
	return 1
}

// Transaction is an immutable buy or sell of a ticker by one user.
// Replay order is DateOf ascending, then ID ascending (insertion order).
type Transaction struct {
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Type     TransactionType `json:"type"`
	Ticker   string          `json:"ticker"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	DateOf   time.Time       `json:"date_of"`
}

// SignedQuantity is the quantity with its holdings effect applied.
func (t Transaction) SignedQuantity() float64 {
	return float64(t.Quantity) * t.Type.Sign()
}

// Amount is price times quantity, unsigned.
func (t Transaction) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// TickerQuantity is the cumulative net quantity of a single ticker after all transactions on Date.
type TickerQuantity struct {
	Date     time.Time `json:"date"`
	Quantity int64     `json:"quantity"`
}
