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

// LotHandler handles HTTP requests for lot-level corrections.
type LotHandler struct {
	mutatorService *service.MutatorService
}

// NewLotHandler creates a new LotHandler with the provided service dependency.
func NewLotHandler(mutatorService *service.MutatorService) *LotHandler {
	return &LotHandler{mutatorService: mutatorService}
}

// UpdateLot handles PUT requests to correct a recorded lot. Only the fields
// present in the body change; the holding's derived figures follow from the
// corrected lot.
//
// Endpoint: PUT /api/account/{uuid}/holding/{symbol}/lot/{lotId}
// Request Body: UpdateLotRequest (all fields optional)
// Response: 200 OK with the updated Lot
// Error: 404 Not Found if the account, holding, or lot does not exist
func (h *LotHandler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateLotRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateLot(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	lot, err := h.mutatorService.EditLot(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r),
		chi.URLParam(r, "symbol"), chi.URLParam(r, "lotId"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, lot)
}

// DeleteLot handles DELETE requests to remove a single lot from a holding.
// Deleting the last lot removes the holding as well.
//
// Endpoint: DELETE /api/account/{uuid}/holding/{symbol}/lot/{lotId}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the account, holding, or lot does not exist
func (h *LotHandler) DeleteLot(w http.ResponseWriter, r *http.Request) {
	err := h.mutatorService.DeleteLot(r.Context(), chi.URLParam(r, "uuid"), middleware.UserID(r),
		chi.URLParam(r, "symbol"), chi.URLParam(r, "lotId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondNoContent(w)
}
