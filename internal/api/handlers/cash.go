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

// CashHandler handles HTTP requests for cash movements and dividends.
type CashHandler struct {
	mutatorService *service.MutatorService
}

// NewCashHandler creates a new CashHandler with the provided service dependency.
func NewCashHandler(mutatorService *service.MutatorService) *CashHandler {
	return &CashHandler{mutatorService: mutatorService}
}

// RecordCashTransaction handles POST requests to deposit into or withdraw
// from an account's cash balance.
//
// Endpoint: POST /api/account/{uuid}/cash
// Request Body: CashTransactionRequest (kind, amount, date)
// Response: 201 Created with the recorded TransactionEntry
// Error: 409 Conflict on withdrawal beyond the available balance
func (h *CashHandler) RecordCashTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CashTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCashTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.mutatorService.RecordCashTransaction(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, entry)
}

// RecordDividend handles POST requests to record a cash dividend paid by a
// held symbol. The amount is credited to the account's cash balance.
//
// Endpoint: POST /api/account/{uuid}/holding/{symbol}/dividend
// Request Body: DividendRequest (amount, date)
// Response: 201 Created with the recorded TransactionEntry
// Error: 404 Not Found if the symbol is not held
func (h *CashHandler) RecordDividend(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.DividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateDividend(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.mutatorService.RecordDividend(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r), chi.URLParam(r, "symbol"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, entry)
}
