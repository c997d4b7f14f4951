package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finledger/holdings-backend/internal/api/middleware"
	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/api/response"
	"github.com/finledger/holdings-backend/internal/service"
	"github.com/finledger/holdings-backend/internal/validation"
)

// HoldingHandler handles HTTP requests for holding and lot mutations.
type HoldingHandler struct {
	mutatorService *service.MutatorService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(mutatorService *service.MutatorService) *HoldingHandler {
	return &HoldingHandler{mutatorService: mutatorService}
}

// OpenHolding handles POST requests to buy into a holding. The holding is
// created on first purchase of a symbol; later purchases add a lot to the
// existing holding.
//
// Endpoint: POST /api/account/{uuid}/holding
// Request Body: OpenHoldingRequest (symbol, assetKind, quantity, unitCost, acquiredAt)
// Response: 201 Created with the recorded TransactionEntry
// Error: 400 Bad Request if validation fails
// Error: 403/404/409 per the usual error mapping
func (h *HoldingHandler) OpenHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.OpenHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateOpenHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.mutatorService.OpenHolding(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, entry)
}

// SellHolding handles POST requests to sell part or all of a holding.
// Lots are consumed oldest first and the sale either succeeds in full or
// leaves the account untouched.
//
// Endpoint: POST /api/account/{uuid}/holding/{symbol}/sell
// Request Body: SellHoldingRequest (quantity, salePrice, date)
// Response: 200 OK with the recorded TransactionEntry (including realizedGain)
// Error: 409 Conflict if the holding has insufficient quantity
func (h *HoldingHandler) SellHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SellHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSellHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.mutatorService.SellHolding(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r), chi.URLParam(r, "symbol"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}

// RemoveHolding handles DELETE requests to remove a holding outright, lots
// and all, without producing sale proceeds. The removal is recorded in the
// transaction log so the account history distinguishes removals from sells.
//
// Endpoint: DELETE /api/account/{uuid}/holding/{symbol}
// Request Body: RemoveHoldingRequest (optional reason)
// Response: 200 OK with the recorded TransactionEntry
// Error: 404 Not Found if the holding does not exist
func (h *HoldingHandler) RemoveHolding(w http.ResponseWriter, r *http.Request) {
	var reason string
	if r.Body != nil && r.ContentLength > 0 {
		req, err := parseJSON[request.RemoveHoldingRequest](r)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
		reason = req.Reason
	}

	entry, err := h.mutatorService.RemoveHolding(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r), chi.URLParam(r, "symbol"), reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}
