package handlers

import (
	"errors"
	"net/http"

	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/api/response"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/service"
)

// CronHandler exposes the scheduled jobs for external triggering.
// Routes are guarded by the API key middleware.
type CronHandler struct {
	snapshotService *service.SnapshotService
	tickerService   *service.TickerService
}

// NewCronHandler creates a new CronHandler.
func NewCronHandler(snapshotService *service.SnapshotService, tickerService *service.TickerService) *CronHandler {
	return &CronHandler{
		snapshotService: snapshotService,
		tickerService:   tickerService,
	}
}

// SnapshotResponse reports the outcome of a daily snapshot.
type SnapshotResponse struct {
	Message string `json:"message"`
	Users   int    `json:"users"`
}

// TickerRefreshResponse reports the outcome of a ticker refresh.
type TickerRefreshResponse struct {
	Message string `json:"message"`
	Updated int    `json:"updated"`
}

// UpdateHistory handles requests to snapshot every user's portfolio value for one day.
//
// Endpoint: GET|POST /api/cron/history/update?date=YYYY-MM-DD (default yesterday)
// Response: 200 OK with SnapshotResponse
// Error: 400 Bad Request if date is malformed
// Error: 500 Internal Server Error if the snapshot fails (nothing is written)
func (h *CronHandler) UpdateHistory(w http.ResponseWriter, r *http.Request) {
	date, err := request.ParseOptionalDate(r.URL.Query().Get("date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), err.Error())
		return
	}

	users, err := h.snapshotService.RunDailySnapshot(r.Context(), date)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRunSnapshot.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, SnapshotResponse{
		Message: "PEA history updated",
		Users:   users,
	})
}

// UpdateMonth handles requests to snapshot every past day of a month.
//
// Endpoint: POST /api/cron/history/month?year=2024&month=3
// Response: 200 OK with array of SnapshotCount
// Error: 400 Bad Request if year or month is invalid, or the month has no past day
// Error: 500 Internal Server Error if the snapshot fails
func (h *CronHandler) UpdateMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := request.ParseYearMonth(r.URL.Query().Get("year"), r.URL.Query().Get("month"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		return
	}

	counts, err := h.snapshotService.RunMonthlySnapshot(r.Context(), year, month)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRunSnapshot.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, counts)
}

// UpdateTickers handles requests to refresh ticker display names.
//
// Endpoint: POST /api/cron/ticker/update
// Response: 200 OK with TickerRefreshResponse
func (h *CronHandler) UpdateTickers(w http.ResponseWriter, r *http.Request) {
	updated, err := h.tickerService.RefreshTickers(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshTickers.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, TickerRefreshResponse{
		Message: "Tickers updated",
		Updated: updated,
	})
}
