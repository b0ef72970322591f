package handlers

import (
	"net/http"

	"github.com/peasy-money/peasy-money-backend/internal/api/response"
	"github.com/peasy-money/peasy-money-backend/internal/apperrors"
	"github.com/peasy-money/peasy-money-backend/internal/service"
)

// TickerHandler serves the ticker name cache.
type TickerHandler struct {
	tickerService *service.TickerService
}

// NewTickerHandler creates a new TickerHandler.
func NewTickerHandler(tickerService *service.TickerService) *TickerHandler {
	return &TickerHandler{
		tickerService: tickerService,
	}
}

// ListTickers handles GET requests for all cached tickers.
//
// Endpoint: GET /api/ticker/
// Response: 200 OK with an object of display name to symbol
func (h *TickerHandler) ListTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := h.tickerService.ListTickers(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTickers.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, tickers)
}
