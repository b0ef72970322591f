package handlers

import (
	"errors"
	"net/http"

	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/api/response"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/service"
)

// DefaultHistoryPeriod is used when total_history is called without a period.
const DefaultHistoryPeriod = "1y"

// PriceHandler serves portfolio valuation endpoints.
type PriceHandler struct {
	valuationService *service.ValuationService
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(valuationService *service.ValuationService) *PriceHandler {
	return &PriceHandler{
		valuationService: valuationService,
	}
}

// TotalInvested handles GET requests for the user's cost basis.
//
// Endpoint: GET /api/transaction/price/total_invest
// Response: 200 OK with a number
func (h *PriceHandler) TotalInvested(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	invested, err := h.valuationService.TotalInvested(r.Context(), user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeValue.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, invested)
}

// Total handles GET requests for the portfolio value on a date.
//
// Endpoint: GET /api/transaction/price/total?date_param=YYYY-MM-DD
// Response: 200 OK with a number (0 when nothing is held)
// Error: 400 Bad Request if date_param is malformed
// Error: 500 Internal Server Error if valuation fails
func (h *PriceHandler) Total(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	date, err := request.ParseOptionalDate(r.URL.Query().Get("date_param"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), err.Error())
		return
	}

	value, err := h.valuationService.ValueOnDate(r.Context(), user.ID, date)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeValue.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, value)
}

// TotalHistory handles GET requests for the value series over a period.
//
// Endpoint: GET /api/transaction/price/total_history?period=1y
// Response: 200 OK with array of ValuePoint
// Error: 400 Bad Request if period is not <integer><d|w|m|y>
// Error: 500 Internal Server Error if computation fails
func (h *PriceHandler) TotalHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	points, err := h.valuationService.ValueSeries(r.Context(), user.ID, periodParam(r))
	if err != nil {
		respondSeriesError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, points)
}

// TotalHistoryStats handles GET requests for summary statistics of the value series.
//
// Endpoint: GET /api/transaction/price/total_history/stats?period=1y
// Response: 200 OK with SeriesStats
// Error: 400 Bad Request if period is invalid
func (h *PriceHandler) TotalHistoryStats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	points, err := h.valuationService.ValueSeries(r.Context(), user.ID, periodParam(r))
	if err != nil {
		respondSeriesError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, service.SeriesStats(points))
}

// Snapshots handles GET requests for the stored daily valuations over a period.
//
// Endpoint: GET /api/transaction/price/snapshots?period=1y
// Response: 200 OK with array of ValuePoint, one per snapshotted day
// Error: 400 Bad Request if period is invalid
func (h *PriceHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	points, err := h.valuationService.SnapshotSeries(r.Context(), user.ID, periodParam(r))
	if err != nil {
		respondSeriesError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, points)
}

// Summary handles GET requests for the dashboard summary.
//
// Endpoint: GET /api/transaction/price/summary
// Response: 200 OK with ValueSummary
func (h *PriceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	summary, err := h.valuationService.Summary(r.Context(), user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeValue.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

func periodParam(r *http.Request) string {
	if p := r.URL.Query().Get("period"); p != "" {
		return p
	}
	return DefaultHistoryPeriod
}

func respondSeriesError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperrors.ErrInvalidPeriod) {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidPeriod.Error(), err.Error())
		return
	}
	response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeHistory.Error(), err.Error())
}
