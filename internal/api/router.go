package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog"

	"github.com/peasy-money/peasy-money-backend/internal/api/handlers"
	custommiddleware "github.com/peasy-money/peasy-money-backend/internal/api/middleware"
	"github.com/peasy-money/peasy-money-backend/internal/config"
	"github.com/peasy-money/peasy-money-backend/internal/service"
)

// Services groups the services the HTTP layer depends on.
type Services struct {
	System      *service.SystemService
	Auth        *service.AuthService
	Transaction *service.TransactionService
	Holdings    *service.HoldingsService
	Valuation   *service.ValuationService
	Snapshot    *service.SnapshotService
	Ticker      *service.TickerService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, tokenAuth *jwtauth.JWTAuth, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	authHandler := handlers.NewAuthHandler(svc.Auth)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Bearer-token routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(custommiddleware.Authenticator(svc.Auth))

			r.Get("/user/me", authHandler.Me)

			r.Route("/transaction", func(r chi.Router) {
				transactionHandler := handlers.NewTransactionHandler(svc.Transaction, svc.Holdings)
				r.Get("/", transactionHandler.ListTransactions)
				r.Post("/", transactionHandler.CreateTransaction)
				r.Get("/total", transactionHandler.CountTransactions)
				r.Get("/tickers/", transactionHandler.Tickers)
				r.Get("/holdings", transactionHandler.Holdings)
				r.Get("/ticker/daily-quantity/", transactionHandler.DailyQuantity)
				r.Get("/ticker/daily-quantity/{ticker}", transactionHandler.DailyQuantityByTicker)

				r.Route("/price", func(r chi.Router) {
					priceHandler := handlers.NewPriceHandler(svc.Valuation)
					r.Get("/total_invest", priceHandler.TotalInvested)
					r.Get("/total", priceHandler.Total)
					r.Get("/total_history", priceHandler.TotalHistory)
					r.Get("/total_history/stats", priceHandler.TotalHistoryStats)
					r.Get("/snapshots", priceHandler.Snapshots)
					r.Get("/summary", priceHandler.Summary)
				})

				r.With(custommiddleware.ValidateTransactionIDMiddleware).Get("/{transactionId}", transactionHandler.GetTransaction)
			})

			r.Route("/ticker", func(r chi.Router) {
				tickerHandler := handlers.NewTickerHandler(svc.Ticker)
				r.Get("/", tickerHandler.ListTickers)
			})
		})

		// Internal trigger routes
		r.Route("/cron", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware(cfg.Auth.InternalAPIKey))

			cronHandler := handlers.NewCronHandler(svc.Snapshot, svc.Ticker)
			r.Get("/history/update", cronHandler.UpdateHistory)
			r.Post("/history/update", cronHandler.UpdateHistory)
			r.Post("/history/month", cronHandler.UpdateMonth)
			r.Post("/ticker/update", cronHandler.UpdateTickers)
		})

		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})
	})

	return r
}
