// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/peasy-money/peasy-money-backend/internal/api/request"
	"github.com/peasy-money/peasy-money-backend/internal/api/response"
)

// ValidateTransactionIDMiddleware validates that the transactionId URL parameter is present
// and is a positive integer. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.With(middleware.ValidateTransactionIDMiddleware).Get("/{transactionId}", handler.GetTransaction)
func ValidateTransactionIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "transactionId")

		if id == "" {
			response.RespondError(w, http.StatusBadRequest, "transaction ID is required", "")
			return
		}

		if _, err := request.ParseTransactionID(id); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid transaction ID", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
