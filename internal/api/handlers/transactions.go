package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/api/response"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/service"
	"github.com/peasy-money/peasy-money-backend/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction and holdings endpoints.
// Every endpoint is scoped to the authenticated user.
type TransactionHandler struct {
	transactionService *service.TransactionService
	holdingsService    *service.HoldingsService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependencies.
func NewTransactionHandler(transactionService *service.TransactionService, holdingsService *service.HoldingsService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		holdingsService:    holdingsService,
	}
}

// ListTransactions handles GET requests to list the user's transactions.
//
// Endpoint: GET /api/transaction/?page=&page_size=
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request if pagination parameters are invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, err := request.ParsePagination(r.URL.Query().Get("page"), r.URL.Query().Get("page_size"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid pagination", err.Error())
		return
	}

	transactions, err := h.transactionService.ListTransactions(r.Context(), user.ID, page)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// CountTransactions handles GET requests for the number of transactions the user owns.
//
// Endpoint: GET /api/transaction/total
// Response: 200 OK with an integer
func (h *TransactionHandler) CountTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	count, err := h.transactionService.CountTransactions(r.Context(), user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, count)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{transactionId}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 403 Forbidden if the transaction belongs to another user
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	transactionID, err := request.ParseTransactionID(chi.URLParam(r, "transactionId"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid transaction ID", err.Error())
		return
	}

	transaction, err := h.transactionService.GetTransaction(r.Context(), user.ID, transactionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrForbidden):
			response.RespondError(w, http.StatusForbidden, apperrors.ErrForbidden.Error(), "")
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to record a buy or sell.
//
// Endpoint: POST /api/transaction/
// Request Body: CreateTransactionRequest (type, ticker, quantity, price, date_of)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails (nothing is written)
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), user.ID, req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// Tickers handles GET requests for the distinct tickers the user has traded.
//
// Endpoint: GET /api/transaction/tickers/
// Response: 200 OK with array of strings
func (h *TransactionHandler) Tickers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	tickers, err := h.holdingsService.Tickers(r.Context(), user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTickers.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, tickers)
}

// DailyQuantity handles GET requests for the holdings change series.
//
// Endpoint: GET /api/transaction/ticker/daily-quantity/
// Response: 200 OK with array of HoldingsChange
func (h *TransactionHandler) DailyQuantity(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	changes, err := h.holdingsService.HoldingsChangeSeries(r.Context(), user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, changes)
}

// DailyQuantityByTicker handles GET requests for the cumulative quantity of one ticker.
//
// Endpoint: GET /api/transaction/ticker/daily-quantity/{ticker}
// Response: 200 OK with array of TickerQuantity
func (h *TransactionHandler) DailyQuantityByTicker(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	series, err := h.holdingsService.TickerQuantitySeries(r.Context(), user.ID, chi.URLParam(r, "ticker"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, series)
}

// Holdings handles GET requests for the visible holdings on a date (today by default).
//
// Endpoint: GET /api/transaction/holdings?date=YYYY-MM-DD
// Response: 200 OK with an object of ticker to quantity, keys sorted
// Error: 400 Bad Request if date is malformed
func (h *TransactionHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	date, err := request.ParseOptionalDate(r.URL.Query().Get("date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), err.Error())
		return
	}
	target := service.Today()
	if date != nil {
		target = *date
	}

	holdings, err := h.holdingsService.VisibleHoldingsOnDate(r.Context(), user.ID, target)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}
