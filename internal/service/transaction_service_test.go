package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/peasy-money/peasy-money-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		Type:     "buy",
		Ticker:   " cw8.pa ",
		Quantity: 3,
		Price:    decimal.RequireFromString("412.35"),
		DateOf:   "2024-03-01",
	}
}

func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the transaction and its ticker row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		user := testutil.NewUser().Build(t, db)

		created, err := svc.CreateTransaction(ctx, user.ID, validCreateRequest())
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "CW8.PA", created.Ticker)
		assert.Equal(t, model.TransactionTypeBuy, created.Type)
		assert.Equal(t, testutil.Date(2024, time.March, 1), created.DateOf)

		tickers, err := repository.NewTickerRepository(db).ListTickers(ctx)
		require.NoError(t, err)
		require.Len(t, tickers, 1)
		assert.Equal(t, "CW8.PA", tickers[0].Symbol)

		stored, err := svc.GetTransaction(ctx, user.ID, created.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("412.35").Equal(stored.Price))
	})

	t.Run("existing ticker names are kept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		user := testutil.NewUser().Build(t, db)
		testutil.CreateTicker(t, db, "CW8.PA", "Amundi MSCI World")

		_, err := svc.CreateTransaction(ctx, user.ID, validCreateRequest())
		require.NoError(t, err)

		tickers, err := repository.NewTickerRepository(db).ListTickers(ctx)
		require.NoError(t, err)
		require.Len(t, tickers, 1)
		assert.Equal(t, "Amundi MSCI World", tickers[0].Name)
	})

	t.Run("insert failure rolls back the ticker row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		user := testutil.NewUser().Build(t, db)

		_, err := db.Exec(`
			CREATE TRIGGER reject_transaction BEFORE INSERT ON "transaction"
			BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
		require.NoError(t, err)

		_, err = svc.CreateTransaction(ctx, user.ID, validCreateRequest())
		assert.ErrorIs(t, err, apperrors.ErrFailedToCreateTransaction)
		assert.Equal(t, 0, testutil.CountRows(t, db, "ticker"))
		assert.Equal(t, 0, testutil.CountRows(t, db, "transaction"))
	})

	t.Run("malformed date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		user := testutil.NewUser().Build(t, db)
		req := validCreateRequest()
		req.DateOf = "01/03/2024"

		_, err := svc.CreateTransaction(ctx, user.ID, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
	})
}

func TestTransactionService_GetTransaction(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)
	owner := testutil.NewUser().Build(t, db)
	intruder := testutil.NewUser().Build(t, db)
	tx := testutil.NewTransaction(owner.ID).Build(t, db)

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.GetTransaction(ctx, owner.ID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, tx.Ticker, got.Ticker)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		_, err := svc.GetTransaction(ctx, intruder.ID, tx.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("missing transaction", func(t *testing.T) {
		_, err := svc.GetTransaction(ctx, owner.ID, tx.ID+100)
		assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
	})
}

func TestTransactionService_ListTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)
	user := testutil.NewUser().Build(t, db)
	other := testutil.NewUser().Build(t, db)

	for i := 1; i <= 5; i++ {
		testutil.NewTransaction(user.ID).WithDate(testutil.Date(2024, time.January, 6-i)).Build(t, db)
	}
	testutil.NewTransaction(other.ID).Build(t, db)

	t.Run("all in replay order", func(t *testing.T) {
		txs, err := svc.ListTransactions(ctx, user.ID, request.Pagination{})
		require.NoError(t, err)
		require.Len(t, txs, 5)
		for i := 1; i < len(txs); i++ {
			assert.False(t, txs[i].DateOf.Before(txs[i-1].DateOf))
		}
	})

	t.Run("paged", func(t *testing.T) {
		txs, err := svc.ListTransactions(ctx, user.ID, request.Pagination{Offset: 1, Limit: 2})
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, testutil.Date(2024, time.January, 2), txs[0].DateOf)
	})

	t.Run("count", func(t *testing.T) {
		count, err := svc.CountTransactions(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})
}
