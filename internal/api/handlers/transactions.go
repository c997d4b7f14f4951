package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finledger/holdings-backend/internal/api/middleware"
	"github.com/finledger/holdings-backend/internal/api/response"
	"github.com/finledger/holdings-backend/internal/model"
	"github.com/finledger/holdings-backend/internal/service"
)

// TransactionHandler handles HTTP requests for the account transaction log.
type TransactionHandler struct {
	accountService *service.AccountService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(accountService *service.AccountService) *TransactionHandler {
	return &TransactionHandler{accountService: accountService}
}

// ListTransactions handles GET requests for an account's transaction history,
// newest first. An optional kind query parameter filters by entry kind.
//
// Endpoint: GET /api/account/{uuid}/transactions?kind=sell
// Response: 200 OK with array of TransactionEntry
// Error: 400 Bad Request if the kind filter is not a known entry kind
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	kind := model.TransactionKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		response.RespondError(w, http.StatusBadRequest, "invalid transaction kind", string(kind))
		return
	}

	entries, err := h.accountService.GetTransactions(chi.URLParam(r, "uuid"), middleware.UserID(r), kind)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, entries)
}
