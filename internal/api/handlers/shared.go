package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/finledger/holdings-backend/internal/api/response"
	"github.com/finledger/holdings-backend/internal/apperrors"
)

// parseJSON decodes a request body into the given request type, rejecting
// unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}
	return req, nil
}

// respondServiceError maps domain errors to HTTP statuses. The error's text
// is passed through verbatim so callers see kind and context; nothing is
// converted into a degraded-but-successful result.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrHoldingNotFound),
		errors.Is(err, apperrors.ErrLotNotFound):
		response.RespondError(w, http.StatusNotFound, "not found", err.Error())

	case errors.Is(err, apperrors.ErrNotAccountOwner):
		response.RespondError(w, http.StatusForbidden, "forbidden", err.Error())

	case errors.Is(err, apperrors.ErrMissingIdentity):
		response.RespondError(w, http.StatusUnauthorized, "unauthorized", err.Error())

	case errors.Is(err, apperrors.ErrInsufficientQuantity),
		errors.Is(err, apperrors.ErrInsufficientFunds):
		response.RespondError(w, http.StatusConflict, "operation rejected", err.Error())

	case errors.Is(err, apperrors.ErrConcurrentModification):
		response.RespondError(w, http.StatusConflict, "concurrent modification, retry with a fresh read", err.Error())

	case errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrNegativeUnitCost),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())

	case errors.Is(err, apperrors.ErrPriceUnavailable):
		response.RespondError(w, http.StatusBadGateway, "price unavailable", err.Error())

	default:
		response.RespondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
