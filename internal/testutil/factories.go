package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the clear-text password of every user created by UserBuilder
// unless WithPassword is used.
const TestPassword = "correct-horse-battery"

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithUsername("alice").
//	    WithPassword("secret").
//	    Build(t, db)
type UserBuilder struct {
	Username string
	Email    string
	Password string
}

// NewUser creates a UserBuilder with a unique username and email.
func NewUser() *UserBuilder {
	name := MakeUsername("user")
	return &UserBuilder{
		Username: name,
		Email:    name + "@example.com",
		Password: TestPassword,
	}
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithPassword sets the clear-text password that will be hashed on Build.
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.Password = password
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	// MinCost keeps test suites fast
	hash, err := bcrypt.GenerateFromPassword([]byte(b.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	createdAt := time.Now().UTC().Truncate(time.Second)
	result, err := db.Exec(
		`INSERT INTO "user" (username, email, hashed_password, created_at) VALUES (?, ?, ?, ?)`,
		b.Username, b.Email, string(hash), createdAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read test user id: %v", err)
	}

	return model.User{
		ID:             id,
		Username:       b.Username,
		Email:          b.Email,
		HashedPassword: string(hash),
		CreatedAt:      createdAt,
	}
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	tx := testutil.NewTransaction(user.ID).
//	    WithTicker("CW8.PA").
//	    Sell().
//	    WithQuantity(3).
//	    WithDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type TransactionBuilder struct {
	UserID   int64
	Type     model.TransactionType
	Ticker   string
	Quantity int64
	Price    decimal.Decimal
	DateOf   time.Time
}

// NewTransaction creates a TransactionBuilder for a buy of 10 TEST.PA at 100 yesterday.
func NewTransaction(userID int64) *TransactionBuilder {
	return &TransactionBuilder{
		UserID:   userID,
		Type:     model.TransactionTypeBuy,
		Ticker:   "TEST.PA",
		Quantity: 10,
		Price:    decimal.NewFromInt(100),
		DateOf:   Day(time.Now().UTC().AddDate(0, 0, -1)),
	}
}

// Sell marks the transaction as a sell.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.Type = model.TransactionTypeSell
	return b
}

// WithTicker sets the ticker symbol.
func (b *TransactionBuilder) WithTicker(ticker string) *TransactionBuilder {
	b.Ticker = ticker
	return b
}

// WithQuantity sets the number of units.
func (b *TransactionBuilder) WithQuantity(quantity int64) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the unit price.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.Price = decimal.NewFromFloat(price)
	return b
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.DateOf = Day(date)
	return b
}

// Model returns the transaction without persisting it.
func (b *TransactionBuilder) Model() model.Transaction {
	return model.Transaction{
		UserID:   b.UserID,
		Type:     b.Type,
		Ticker:   b.Ticker,
		Quantity: b.Quantity,
		Price:    b.Price,
		DateOf:   b.DateOf,
	}
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	tx := b.Model()
	result, err := db.Exec(
		`INSERT INTO "transaction" (user_id, type, ticker, quantity, price, date_of) VALUES (?, ?, ?, ?, ?, ?)`,
		tx.UserID, string(tx.Type), tx.Ticker, tx.Quantity, tx.Price.InexactFloat64(), tx.DateOf.Format("2006-01-02"),
	)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	tx.ID, err = result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read test transaction id: %v", err)
	}
	return tx
}

// HistoryEntryBuilder provides a fluent interface for creating pea_history rows.
type HistoryEntryBuilder struct {
	UserID        int64
	Date          time.Time
	TotalInvested float64
}

// NewHistoryEntry creates a HistoryEntryBuilder for userID on date.
func NewHistoryEntry(userID int64, date time.Time) *HistoryEntryBuilder {
	return &HistoryEntryBuilder{
		UserID:        userID,
		Date:          Day(date),
		TotalInvested: 1000,
	}
}

// WithTotal sets the cached portfolio value.
func (b *HistoryEntryBuilder) WithTotal(total float64) *HistoryEntryBuilder {
	b.TotalInvested = total
	return b
}

// Build creates the history entry in the database and returns it.
func (b *HistoryEntryBuilder) Build(t *testing.T, db *sql.DB) model.PEAHistoryEntry {
	t.Helper()

	entry := model.PEAHistoryEntry{
		ID:            uuid.New().String(),
		UserID:        b.UserID,
		Date:          b.Date,
		TotalInvested: b.TotalInvested,
		CalculatedAt:  time.Now().UTC().Truncate(time.Second),
	}

	_, err := db.Exec(
		`INSERT INTO pea_history (id, user_id, date, total_invested, calculated_at) VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Date.Format("2006-01-02"), entry.TotalInvested, entry.CalculatedAt.Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create test history entry: %v", err)
	}
	return entry
}

// CreateTicker inserts a ticker metadata row.
func CreateTicker(t *testing.T, db *sql.DB, symbol, name string) model.Ticker {
	t.Helper()

	ticker := model.Ticker{ID: uuid.New().String(), Symbol: symbol, Name: name}
	if _, err := db.Exec(`INSERT INTO ticker (id, symbol, name) VALUES (?, ?, ?)`, ticker.ID, ticker.Symbol, ticker.Name); err != nil {
		t.Fatalf("Failed to create test ticker: %v", err)
	}
	return ticker
}
