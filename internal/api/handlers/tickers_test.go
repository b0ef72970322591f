package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/peasy-money/peasy-money-backend/internal/testutil"
)

func TestTickerHandler_ListTickers(t *testing.T) {
	t.Run("maps display names to symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTickerHandler(testutil.NewTestTickerService(t, db, testutil.NewMockYahooClient()))
		testutil.CreateTicker(t, db, "CW8.PA", "Amundi MSCI World")
		testutil.CreateTicker(t, db, "AI.PA", "Air Liquide")

		req := httptest.NewRequest(http.MethodGet, "/api/ticker/", nil)
		w := httptest.NewRecorder()

		handler.ListTickers(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response map[string]string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Fatalf("Expected 2 tickers, got %d", len(response))
		}
		if response["Amundi MSCI World"] != "CW8.PA" {
			t.Errorf("Expected CW8.PA, got %q", response["Amundi MSCI World"])
		}
	})

	t.Run("returns an empty object with no tickers", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTickerHandler(testutil.NewTestTickerService(t, db, testutil.NewMockYahooClient()))

		req := httptest.NewRequest(http.MethodGet, "/api/ticker/", nil)
		w := httptest.NewRecorder()

		handler.ListTickers(w, req)

		if body := w.Body.String(); body != "{}\n" {
			t.Errorf("Expected {}, got %q", body)
		}
	})

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewTickerHandler(testutil.NewTestTickerService(t, db, testutil.NewMockYahooClient()))
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/ticker/", nil)
		w := httptest.NewRecorder()

		handler.ListTickers(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}
