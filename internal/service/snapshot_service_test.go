package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/repository"
	"github.com/peasy-money/peasy-money-backend/internal/service"
	"github.com/peasy-money/peasy-money-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotService_RunDailySnapshot(t *testing.T) {
	ctx := context.Background()
	today := testutil.Day(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	t.Run("writes one row per user for yesterday", func(t *testing.T) {
		service.PinToday(t, today)
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().
			WithSymbolResponse("AI.PA", testutil.CreateMockYahooResponseForDate(yesterday, 170))
		svc := testutil.NewTestSnapshotService(t, db, mock)

		alice := testutil.NewUser().Build(t, db)
		bob := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(alice.ID).WithQuantity(10).Build(t, db)
		testutil.NewTransaction(bob.ID).WithTicker("AI.PA").WithQuantity(2).Build(t, db)
		testutil.NewTransaction(bob.ID).WithQuantity(1).Build(t, db)

		users, err := svc.RunDailySnapshot(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, users)

		repo := repository.NewHistoryRepository(db)
		aliceEntry, err := repo.GetEntry(ctx, alice.ID, yesterday)
		require.NoError(t, err)
		assert.Equal(t, 1022.5, aliceEntry.TotalInvested)

		bobEntry, err := repo.GetEntry(ctx, bob.ID, yesterday)
		require.NoError(t, err)
		assert.Equal(t, 442.25, bobEntry.TotalInvested)

		// union of tickers, one query each
		assert.Equal(t, 2, mock.Count())
	})

	t.Run("rerunning overwrites instead of duplicating", func(t *testing.T) {
		service.PinToday(t, today)
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient()
		svc := testutil.NewTestSnapshotService(t, db, mock)
		user := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(user.ID).WithQuantity(10).Build(t, db)
		testutil.NewHistoryEntry(user.ID, yesterday).WithTotal(1).Build(t, db)

		_, err := svc.RunDailySnapshot(ctx, nil)
		require.NoError(t, err)
		_, err = svc.RunDailySnapshot(ctx, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, testutil.CountRows(t, db, "pea_history"))
		entry, err := repository.NewHistoryRepository(db).GetEntry(ctx, user.ID, yesterday)
		require.NoError(t, err)
		assert.Equal(t, 1022.5, entry.TotalInvested)
	})

	t.Run("explicit date and users who had not started yet", func(t *testing.T) {
		service.PinToday(t, today)
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db, testutil.NewMockYahooClient())
		early := testutil.NewUser().Build(t, db)
		late := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(early.ID).WithQuantity(1).WithDate(today.AddDate(0, 0, -4)).Build(t, db)
		testutil.NewTransaction(late.ID).WithQuantity(1).WithDate(today.AddDate(0, 0, -1)).Build(t, db)

		target := today.AddDate(0, 0, -3)
		users, err := svc.RunDailySnapshot(ctx, &target)
		require.NoError(t, err)
		assert.Equal(t, 1, users)

		_, err = repository.NewHistoryRepository(db).GetEntry(ctx, late.ID, target)
		assert.ErrorIs(t, err, apperrors.ErrHistoryEntryNotFound)
	})

	t.Run("a failing ticker contributes zero without failing the run", func(t *testing.T) {
		service.PinToday(t, today)
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().WithSymbolError("GONE.PA", fmt.Errorf("http 404"))
		svc := testutil.NewTestSnapshotService(t, db, mock)
		user := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(user.ID).WithQuantity(10).Build(t, db)
		testutil.NewTransaction(user.ID).WithTicker("GONE.PA").WithQuantity(3).Build(t, db)

		users, err := svc.RunDailySnapshot(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, users)

		entry, err := repository.NewHistoryRepository(db).GetEntry(ctx, user.ID, yesterday)
		require.NoError(t, err)
		assert.Equal(t, 1022.5, entry.TotalInvested)
	})

	t.Run("a write failure rolls back every row of the run", func(t *testing.T) {
		service.PinToday(t, today)
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db, testutil.NewMockYahooClient())
		first := testutil.NewUser().Build(t, db)
		second := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(first.ID).Build(t, db)
		testutil.NewTransaction(second.ID).Build(t, db)

		_, err := db.Exec(fmt.Sprintf(`
			CREATE TRIGGER reject_second BEFORE INSERT ON pea_history
			WHEN NEW.user_id = %d
			BEGIN SELECT RAISE(ABORT, 'rejected'); END`, second.ID))
		require.NoError(t, err)

		_, err = svc.RunDailySnapshot(ctx, nil)
		assert.ErrorIs(t, err, apperrors.ErrFailedToRunSnapshot)
		assert.Equal(t, 0, testutil.CountRows(t, db, "pea_history"))
	})

	t.Run("no users", func(t *testing.T) {
		service.PinToday(t, today)
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient()
		svc := testutil.NewTestSnapshotService(t, db, mock)

		users, err := svc.RunDailySnapshot(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, users)
		assert.Equal(t, 0, mock.Count())
	})
}

func TestSnapshotService_RunMonthlySnapshot(t *testing.T) {
	ctx := context.Background()
	pinned := testutil.Date(2024, time.March, 15)

	feb := make([]testutil.ClosePrice, 0, 29)
	for d := testutil.Date(2024, time.February, 1); d.Month() == time.February; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		feb = append(feb, testutil.ClosePrice{Date: d, Close: float64(d.Day())})
	}

	t.Run("snapshots every day of a past month", func(t *testing.T) {
		service.PinToday(t, pinned)
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().
			WithResponse(testutil.CreateMockYahooResponseForCloses("CW8.PA", feb...))
		svc := testutil.NewTestSnapshotService(t, db, mock)
		user := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(user.ID).WithTicker("CW8.PA").WithQuantity(2).WithDate(testutil.Date(2024, time.February, 1)).Build(t, db)

		counts, err := svc.RunMonthlySnapshot(ctx, 2024, time.February)
		require.NoError(t, err)
		require.Len(t, counts, 29)
		for _, c := range counts {
			assert.Equal(t, 1, c.Users)
		}
		assert.Equal(t, 29, testutil.CountRows(t, db, "pea_history"))
		assert.Equal(t, 1, mock.Count())

		// Saturday 3rd uses Friday 2nd's close
		entry, err := repository.NewHistoryRepository(db).GetEntry(ctx, user.ID, testutil.Date(2024, time.February, 3))
		require.NoError(t, err)
		assert.Equal(t, 4.0, entry.TotalInvested)
	})

	t.Run("current month stops at yesterday", func(t *testing.T) {
		service.PinToday(t, pinned)
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db, testutil.NewMockYahooClient())
		user := testutil.NewUser().Build(t, db)
		testutil.NewTransaction(user.ID).WithDate(testutil.Date(2024, time.January, 10)).Build(t, db)

		counts, err := svc.RunMonthlySnapshot(ctx, 2024, time.March)
		require.NoError(t, err)
		require.Len(t, counts, 14)
		assert.Equal(t, testutil.Date(2024, time.March, 14), counts[13].Date)
	})

	t.Run("future month is rejected", func(t *testing.T) {
		service.PinToday(t, pinned)
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db, testutil.NewMockYahooClient())

		_, err := svc.RunMonthlySnapshot(ctx, 2024, time.April)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})

	t.Run("invalid month is rejected", func(t *testing.T) {
		service.PinToday(t, pinned)
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db, testutil.NewMockYahooClient())

		_, err := svc.RunMonthlySnapshot(ctx, 2024, time.Month(13))
		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})
}
