package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peasy-money/peasy-money-backend/internal/api"
	"github.com/peasy-money/peasy-money-backend/internal/config"
	"github.com/peasy-money/peasy-money-backend/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Auth: config.AuthConfig{SecretKey: "test-secret", AccessTokenTTLMinutes: 5, InternalAPIKey: "key"},
		Scheduler: config.SchedulerConfig{
			Enabled:               true,
			SnapshotSchedule:      "0 30 1 * * *",
			TickerRefreshSchedule: "0 0 3 * * MON",
		},
		Prices: config.PriceConfig{LookbackDays: 30, FetchConcurrency: 2},
	}
}

func TestNewServices(t *testing.T) {
	cfg := testConfig()
	db := testutil.SetupTestDB(t)

	svc, tokenAuth := newServices(cfg, db, testutil.NewMockYahooClient(), zerolog.Nop())
	require.NotNil(t, tokenAuth)

	router := api.NewRouter(svc, tokenAuth, cfg, zerolog.Nop())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user := testutil.NewUser().Build(t, db)
	token, err := svc.Auth.IssueToken(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestNewScheduler(t *testing.T) {
	cfg := testConfig()
	svc, _ := newServices(cfg, testutil.SetupTestDB(t), testutil.NewMockYahooClient(), zerolog.Nop())

	t.Run("disabled", func(t *testing.T) {
		sched, err := newScheduler(config.SchedulerConfig{}, svc, zerolog.Nop())
		require.NoError(t, err)
		assert.Nil(t, sched)
	})

	t.Run("registers both jobs", func(t *testing.T) {
		sched, err := newScheduler(cfg.Scheduler, svc, zerolog.Nop())
		require.NoError(t, err)
		require.NotNil(t, sched)
	})

	t.Run("rejects a bad schedule", func(t *testing.T) {
		bad := cfg.Scheduler
		bad.TickerRefreshSchedule = "0 3 * * MON"
		_, err := newScheduler(bad, svc, zerolog.Nop())
		assert.Error(t, err)
	})
}
