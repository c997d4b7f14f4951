package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/finledger/holdings-backend/internal/api/handlers"
	custommiddleware "github.com/finledger/holdings-backend/internal/api/middleware"
	"github.com/finledger/holdings-backend/internal/config"
	"github.com/finledger/holdings-backend/internal/service"
)

// Services bundles the service-layer dependencies the router wires into
// handlers.
type Services struct {
	System  *service.SystemService
	Account *service.AccountService
	Mutator *service.MutatorService
	Price   *service.PriceService
	Setting *service.SettingService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace, no identity required
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svcs.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		// Everything below requires the caller's identity header
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.Identity)

			r.Route("/settings", func(r chi.Router) {
				settingHandler := handlers.NewSettingHandler(svcs.Setting)
				r.Get("/oracle-key", settingHandler.OracleKeyStatus)
				r.Put("/oracle-key", settingHandler.SetOracleKey)
			})

			r.Route("/account", func(r chi.Router) {
				accountHandler := handlers.NewAccountHandler(svcs.Account)
				holdingHandler := handlers.NewHoldingHandler(svcs.Mutator)
				lotHandler := handlers.NewLotHandler(svcs.Mutator)
				cashHandler := handlers.NewCashHandler(svcs.Mutator)
				priceHandler := handlers.NewPriceHandler(svcs.Price)
				transactionHandler := handlers.NewTransactionHandler(svcs.Account)

				r.Get("/", accountHandler.ListAccounts)
				r.Post("/", accountHandler.CreateAccount)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)

					r.Get("/", accountHandler.GetAccount)
					r.Put("/", accountHandler.UpdateAccount)
					r.Delete("/", accountHandler.DeleteAccount)
					r.Get("/summary", accountHandler.GetSummary)
					r.Get("/transactions", transactionHandler.ListTransactions)
					r.Post("/cash", cashHandler.RecordCashTransaction)
					r.Post("/prices/refresh", priceHandler.RefreshAllPrices)

					r.Post("/holding", holdingHandler.OpenHolding)
					r.Route("/holding/{symbol}", func(r chi.Router) {
						r.Delete("/", holdingHandler.RemoveHolding)
						r.Post("/sell", holdingHandler.SellHolding)
						r.Post("/price", priceHandler.RefreshHoldingPrice)
						r.Post("/dividend", cashHandler.RecordDividend)
						r.Put("/lot/{lotId}", lotHandler.UpdateLot)
						r.Delete("/lot/{lotId}", lotHandler.DeleteLot)
					})
				})
			})
		})
	})

	return r
}
