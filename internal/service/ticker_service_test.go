package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/peasy-money/peasy-money-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerService_RefreshTickers(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the long name of every traded ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().
			WithSymbolResponse("CW8.PA", testutil.CreateMockYahooResponseForCloses("CW8.PA")).
			WithSymbolError("GONE.PA", errors.New("http 404"))
		svc := testutil.NewTestTickerService(t, db, mock)
		user := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(user.ID).WithTicker("CW8.PA").Build(t, db)
		testutil.NewTransaction(user.ID).WithTicker("GONE.PA").Build(t, db)
		testutil.CreateTicker(t, db, "GONE.PA", "GONE.PA")

		updated, err := svc.RefreshTickers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, updated)

		names, err := svc.ListTickers(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"CW8.PA Test Fund": "CW8.PA",
			"GONE.PA":          "GONE.PA",
		}, names)
	})

	t.Run("nothing traded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient()
		svc := testutil.NewTestTickerService(t, db, mock)

		updated, err := svc.RefreshTickers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, updated)
		assert.Equal(t, 0, mock.Count())
	})
}
