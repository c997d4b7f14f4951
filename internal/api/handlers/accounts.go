package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finledger/holdings-backend/internal/api/middleware"
	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/api/response"
	"github.com/finledger/holdings-backend/internal/apperrors"
	"github.com/finledger/holdings-backend/internal/service"
	"github.com/finledger/holdings-backend/internal/validation"
)

// AccountHandler handles HTTP requests for account endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the accountService.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler with the provided service dependency.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ListAccounts handles GET requests to list the caller's accounts.
//
// Endpoint: GET /api/account
// Response: 200 OK with array of Account (no holdings)
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.GetAccounts(middleware.UserID(r))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccounts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, accounts)
}

// CreateAccount handles POST requests to create a new, empty account.
//
// Endpoint: POST /api/account
// Request Body: CreateAccountRequest (name, institution, accountType)
// Response: 201 Created with Account
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAccount(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), middleware.UserID(r), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create account", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, account)
}

// GetAccount handles GET requests to retrieve one account with its holdings
// and lots.
//
// Endpoint: GET /api/account/{uuid}
// Response: 200 OK with Account
// Error: 403 Forbidden if the caller does not own the account
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.GetAccount(chi.URLParam(r, "uuid"), middleware.UserID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// UpdateAccount handles PUT requests to update account metadata.
//
// Endpoint: PUT /api/account/{uuid}
// Request Body: UpdateAccountRequest (all fields optional)
// Response: 200 OK with updated Account
// Error: 400/403/404/409 per the usual error mapping
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateAccount(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	account, err := h.accountService.UpdateAccount(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// DeleteAccount handles DELETE requests to delete an account and everything
// it owns.
//
// Endpoint: DELETE /api/account/{uuid}
// Response: 204 No Content on successful deletion
// Error: 403 Forbidden if the caller does not own the account
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := h.accountService.DeleteAccount(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondNoContent(w)
}

// GetSummary handles GET requests for the account's valuation summary.
//
// Endpoint: GET /api/account/{uuid}/summary
// Response: 200 OK with AccountSummary
func (h *AccountHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.accountService.GetSummary(chi.URLParam(r, "uuid"), middleware.UserID(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
