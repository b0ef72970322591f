package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/model"
	"github.com/peasy-money/peasy-money-backend/internal/testutil"
)

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ts := testutil.NewTestTransactionService(t, db)
	hs := testutil.NewTestHoldingsService(t, db)
	return NewTransactionHandler(ts, hs), db
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("returns empty array when no transactions exist", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.AuthenticatedRequest(httptest.NewRequest(http.MethodGet, "/api/transaction/", nil), user)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response == nil {
			t.Error("Expected non-nil array, got nil")
		}
		if len(response) != 0 {
			t.Errorf("Expected empty array, got %d transactions", len(response))
		}
	})

	t.Run("returns only the caller's transactions", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)
		other := testutil.NewUser().Build(t, db)

		tx1 := testutil.NewTransaction(user.ID).Build(t, db)
		tx2 := testutil.NewTransaction(user.ID).Build(t, db)
		testutil.NewTransaction(other.ID).Build(t, db)

		req := testutil.AuthenticatedRequest(httptest.NewRequest(http.MethodGet, "/api/transaction/", nil), user)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(response))
		}
		if response[0].ID != tx1.ID || response[1].ID != tx2.ID {
			t.Errorf("Expected transactions in insertion order, got %d, %d", response[0].ID, response[1].ID)
		}
	})

	t.Run("applies page and page_size", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)
		for i := 0; i < 5; i++ {
			testutil.NewTransaction(user.ID).Build(t, db)
		}

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transaction/", map[string]string{
			"page":      "3",
			"page_size": "10",
		})
		req = testutil.AuthenticatedRequest(req, user)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		var response []model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Errorf("Expected 2 transactions after offset 3, got %d", len(response))
		}
	})

	t.Run("returns 400 for page_size above the maximum", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transaction/", map[string]string{"page_size": "101"})
		req = testutil.AuthenticatedRequest(req, user)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 401 without a user", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/transaction/", nil)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)
		db.Close()

		req := testutil.AuthenticatedRequest(httptest.NewRequest(http.MethodGet, "/api/transaction/", nil), user)
		w := httptest.NewRecorder()

		handler.ListTransactions(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_CountTransactions(t *testing.T) {
	handler, db := setupTransactionHandler(t)
	user := testutil.NewUser().Build(t, db)
	testutil.NewTransaction(user.ID).Build(t, db)
	testutil.NewTransaction(user.ID).Build(t, db)

	req := testutil.AuthenticatedRequest(httptest.NewRequest(http.MethodGet, "/api/transaction/total", nil), user)
	w := httptest.NewRecorder()

	handler.CountTransactions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if strings.TrimSpace(w.Body.String()) != "2" {
		t.Errorf("Expected count 2, got %s", w.Body.String())
	}
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns the transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)
		tx := testutil.NewTransaction(user.ID).WithTicker("CW8.PA").Build(t, db)

		id := strconv.FormatInt(tx.ID, 10)
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+id, map[string]string{"transactionId": id})
		req = testutil.AuthenticatedRequest(req, user)
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Ticker != "CW8.PA" {
			t.Errorf("Expected ticker CW8.PA, got %s", response.Ticker)
		}
	})

	t.Run("returns 404 for a missing transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/42", map[string]string{"transactionId": "42"})
		req = testutil.AuthenticatedRequest(req, user)
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 403 for another user's transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		owner := testutil.NewUser().Build(t, db)
		intruder := testutil.NewUser().Build(t, db)
		tx := testutil.NewTransaction(owner.ID).Build(t, db)

		id := strconv.FormatInt(tx.ID, 10)
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+id, map[string]string{"transactionId": id})
		req = testutil.AuthenticatedRequest(req, intruder)
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for a malformed id", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/abc", map[string]string{"transactionId": "abc"})
		req = testutil.AuthenticatedRequest(req, user)
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	validBody := `{"type":"buy","ticker":"cw8.pa","quantity":3,"price":412.35,"date_of":"2024-03-01"}`

	t.Run("creates a transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)

		req := testutil.AuthenticatedRequest(testutil.NewJSONRequest(http.MethodPost, "/api/transaction/", validBody), user)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Transaction
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Ticker != "CW8.PA" {
			t.Errorf("Expected ticker to be upper-cased, got %s", response.Ticker)
		}
		if response.UserID != user.ID {
			t.Errorf("Expected user_id %d, got %d", user.ID, response.UserID)
		}
		if testutil.CountRows(t, db, "ticker") != 1 {
			t.Error("Expected ticker metadata row to be created")
		}
	})

	validationCases := []struct {
		name string
		body string
	}{
		{"unknown type", `{"type":"hold","ticker":"CW8.PA","quantity":3,"price":10,"date_of":"2024-03-01"}`},
		{"zero quantity", `{"type":"buy","ticker":"CW8.PA","quantity":0,"price":10,"date_of":"2024-03-01"}`},
		{"negative price", `{"type":"buy","ticker":"CW8.PA","quantity":3,"price":-1,"date_of":"2024-03-01"}`},
		{"bad date", `{"type":"buy","ticker":"CW8.PA","quantity":3,"price":10,"date_of":"01-03-2024"}`},
		{"empty ticker", `{"type":"buy","ticker":"  ","quantity":3,"price":10,"date_of":"2024-03-01"}`},
		{"unknown field", `{"type":"buy","ticker":"CW8.PA","quantity":3,"price":10,"date_of":"2024-03-01","fee":1}`},
		{"malformed json", `{"type":`},
		{"empty body", ``},
	}

	for _, tc := range validationCases {
		t.Run("returns 400 for "+tc.name, func(t *testing.T) {
			handler, db := setupTransactionHandler(t)
			user := testutil.NewUser().Build(t, db)

			req := testutil.AuthenticatedRequest(testutil.NewJSONRequest(http.MethodPost, "/api/transaction/", tc.body), user)
			w := httptest.NewRecorder()

			handler.CreateTransaction(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if testutil.CountRows(t, db, "transaction") != 0 {
				t.Error("Expected nothing to be written")
			}
		})
	}

	t.Run("returns 500 when database is closed", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		user := testutil.NewUser().Build(t, db)
		db.Close()

		req := testutil.AuthenticatedRequest(testutil.NewJSONRequest(http.MethodPost, "/api/transaction/", validBody), user)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_Tickers(t *testing.T) {
	handler, db := setupTransactionHandler(t)
	user := testutil.NewUser().Build(t, db)
	testutil.NewTransaction(user.ID).WithTicker("CW8.PA").Build(t, db)
	testutil.NewTransaction(user.ID).WithTicker("AI.PA").Build(t, db)
	testutil.NewTransaction(user.ID).WithTicker("CW8.PA").Build(t, db)

	req := testutil.AuthenticatedRequest(httptest.NewRequest(http.MethodGet, "/api/transaction/tickers/", nil), user)
	w := httptest.NewRecorder()

	handler.Tickers(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var response []string
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&response)

	if len(response) != 2 || response[0] != "AI.PA" || response[1] != "CW8.PA" {
		t.Errorf("Expected [AI.PA CW8.PA], got %v", response)
	}
}

func TestTransactionHandler_DailyQuantity(t *testing.T) {
	handler, db := setupTransactionHandler(t)
	user := testutil.NewUser().Build(t, db)
	testutil.NewTransaction(user.ID).WithTicker("CW8.PA").WithQuantity(2).WithDate(testutil.Date(2024, time.January, 2)).Build(t, db)
	testutil.NewTransaction(user.ID).WithTicker("CW8.PA").WithQuantity(3).WithDate(testutil.Date(2024, time.January, 9)).Build(t, db)

	t.Run("returns the holdings change series", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(httptest.NewRequest(http.MethodGet, "/api/transaction/ticker/daily-quantity/", nil), user)
		w := httptest.NewRecorder()

		handler.DailyQuantity(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.HoldingsChange
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 {
			t.Fatalf("Expected 2 change points, got %d", len(response))
		}
		if qty, _ := response[1].Tickers.Get("CW8.PA"); qty != 5 {
			t.Errorf("Expected 5 CW8.PA after second buy, got %v", qty)
		}
	})

	t.Run("returns the per ticker series", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/ticker/daily-quantity/CW8.PA", map[string]string{"ticker": "CW8.PA"})
		req = testutil.AuthenticatedRequest(req, user)
		w := httptest.NewRecorder()

		handler.DailyQuantityByTicker(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response []model.TickerQuantity
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response) != 2 || response[1].Quantity != 5 {
			t.Errorf("Expected cumulative quantity 5 on the second date, got %+v", response)
		}
	})
}

func TestTransactionHandler_Holdings(t *testing.T) {
	handler, db := setupTransactionHandler(t)
	user := testutil.NewUser().Build(t, db)
	testutil.NewTransaction(user.ID).WithTicker("CW8.PA").WithQuantity(4).WithDate(testutil.Date(2024, time.January, 2)).Build(t, db)
	testutil.NewTransaction(user.ID).WithTicker("AI.PA").WithQuantity(1).WithDate(testutil.Date(2024, time.February, 2)).Build(t, db)

	t.Run("returns holdings on the requested date", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transaction/holdings", map[string]string{"date": "2024-01-15"})
		req = testutil.AuthenticatedRequest(req, user)
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if body := strings.TrimSpace(w.Body.String()); body != `{"CW8.PA":4}` {
			t.Errorf("Expected {\"CW8.PA\":4}, got %s", body)
		}
	})

	t.Run("defaults to today with keys sorted", func(t *testing.T) {
		req := testutil.AuthenticatedRequest(httptest.NewRequest(http.MethodGet, "/api/transaction/holdings", nil), user)
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		if body := strings.TrimSpace(w.Body.String()); body != `{"AI.PA":1,"CW8.PA":4}` {
			t.Errorf("Expected sorted holdings, got %s", body)
		}
	})

	t.Run("returns 400 for a malformed date", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/transaction/holdings", map[string]string{"date": "15/01/2024"})
		req = testutil.AuthenticatedRequest(req, user)
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
