package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/peasy-money/peasy-money-backend/internal/service"
	"github.com/peasy-money/peasy-money-backend/internal/yahoo"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// TestSecretKey signs the access tokens issued in tests.
const TestSecretKey = "test-secret-key"

// TestLookbackDays is the price lookback used by test oracles.
const TestLookbackDays = 10

// NewTestTokenAuth returns the HS256 signer shared by test auth services and routers.
func NewTestTokenAuth() *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(TestSecretKey), nil)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewTickerRepository(db),
	)
}

func NewTestHoldingsService(t *testing.T, db *sql.DB) *service.HoldingsService {
	t.Helper()

	return service.NewHoldingsService(repository.NewTransactionRepository(db))
}

// NewTestPriceOracle creates a PriceOracle over client with a silent logger.
func NewTestPriceOracle(t *testing.T, client yahoo.Client) *service.PriceOracle {
	t.Helper()

	return service.NewPriceOracle(client, zerolog.Nop(), TestLookbackDays, 2)
}

// NewTestValuationService creates a ValuationService whose prices come from mockYahoo.
func NewTestValuationService(t *testing.T, db *sql.DB, mockYahoo yahoo.Client) *service.ValuationService {
	t.Helper()

	return service.NewValuationService(
		repository.NewTransactionRepository(db),
		repository.NewHistoryRepository(db),
		NewTestPriceOracle(t, mockYahoo),
		zerolog.Nop(),
	)
}

// NewTestSnapshotService creates a SnapshotService whose prices come from mockYahoo.
func NewTestSnapshotService(t *testing.T, db *sql.DB, mockYahoo yahoo.Client) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewHistoryRepository(db),
		NewTestPriceOracle(t, mockYahoo),
		zerolog.Nop(),
	)
}

func NewTestTickerService(t *testing.T, db *sql.DB, mockYahoo yahoo.Client) *service.TickerService {
	t.Helper()

	return service.NewTickerService(
		repository.NewTickerRepository(db),
		repository.NewTransactionRepository(db),
		mockYahoo,
		zerolog.Nop(),
	)
}

// NewTestAuthService creates an AuthService signing with NewTestTokenAuth and hashing at bcrypt.MinCost.
func NewTestAuthService(t *testing.T, db *sql.DB) *service.AuthService {
	t.Helper()

	return service.NewAuthService(
		repository.NewUserRepository(db),
		NewTestTokenAuth(),
		time.Hour,
	).WithBcryptCost(bcrypt.MinCost)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// Day returns midnight UTC of t's calendar day.
//
// Example usage:
//
//	yesterday := testutil.Day(time.Now().AddDate(0, 0, -1))
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date is shorthand for midnight UTC on year-month-day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MakeUsername generates a unique username for testing.
//
// Example usage:
//
//	name := testutil.MakeUsername("alice")
//	// Returns: "alice_1a2b3c"
func MakeUsername(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "_" + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random lowercase alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
