package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/peasy-money/peasy-money-backend/internal/testutil"
)

func TestTickerRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewTickerRepository(db)

	require.NoError(t, repo.EnsureTicker(ctx, "CW8.PA"))
	require.NoError(t, repo.UpsertTickerName(ctx, "CW8.PA", "Amundi MSCI World"))

	// ensuring again keeps the refreshed name
	require.NoError(t, repo.EnsureTicker(ctx, "CW8.PA"))
	require.NoError(t, repo.UpsertTickerName(ctx, "AI.PA", "Air Liquide"))

	tickers, err := repo.ListTickers(ctx)
	require.NoError(t, err)
	require.Len(t, tickers, 2)
	assert.Equal(t, "AI.PA", tickers[0].Symbol)
	assert.Equal(t, "Air Liquide", tickers[0].Name)
	assert.Equal(t, "Amundi MSCI World", tickers[1].Name)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)

	u := model.User{Username: "alice", Email: "alice@example.com", HashedPassword: "hash"}
	require.NoError(t, repo.InsertUser(ctx, &u))
	require.NotZero(t, u.ID)

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "hash", got.HashedPassword)
	})

	t.Run("by username or email", func(t *testing.T) {
		for _, login := range []string{"alice", "alice@example.com"} {
			got, err := repo.GetUserByLogin(ctx, login)
			require.NoError(t, err, login)
			assert.Equal(t, u.ID, got.ID)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetUser(ctx, u.ID+1)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

		_, err = repo.GetUserByLogin(ctx, "bob")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := model.User{Username: "alice", Email: "other@example.com", HashedPassword: "hash"}
		assert.ErrorIs(t, repo.InsertUser(ctx, &dup), apperrors.ErrUsernameTaken)
	})
}
