package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finledger/holdings-backend/internal/api/middleware"
	"github.com/finledger/holdings-backend/internal/api/response"
	"github.com/finledger/holdings-backend/internal/service"
)

// PriceHandler handles HTTP requests for price refreshes.
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler with the provided service dependency.
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// RefreshHoldingPrice handles POST requests to refresh the cached price of a
// single holding from the price oracle.
//
// Endpoint: POST /api/account/{uuid}/holding/{symbol}/price
// Response: 200 OK with the updated Holding
// Error: 502 Bad Gateway if the oracle cannot supply a price; the cached
// price and timestamp are left untouched
func (h *PriceHandler) RefreshHoldingPrice(w http.ResponseWriter, r *http.Request) {
	holding, err := h.priceService.RefreshHoldingPrice(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// RefreshAllPrices handles POST requests to refresh every holding in an
// account. Lookups run concurrently and failures for individual symbols do
// not block the rest; each symbol's outcome is reported in the response.
//
// Endpoint: POST /api/account/{uuid}/prices/refresh
// Response: 200 OK with per-symbol RefreshResult array
func (h *PriceHandler) RefreshAllPrices(w http.ResponseWriter, r *http.Request) {
	results, err := h.priceService.RefreshAllPrices(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, results)
}
