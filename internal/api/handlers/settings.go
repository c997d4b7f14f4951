package handlers

import (
	"errors"
	"net/http"

	"github.com/finledger/holdings-backend/internal/api/request"
	"github.com/finledger/holdings-backend/internal/api/response"
	"github.com/finledger/holdings-backend/internal/service"
)

// SettingHandler handles HTTP requests for system settings.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new SettingHandler with the provided service dependency.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// SetOracleKey handles PUT requests to store the price oracle API key. The
// key is encrypted before it reaches the database and is never returned by
// any endpoint.
//
// Endpoint: PUT /api/settings/oracle-key
// Request Body: OracleKeyRequest (apiKey)
// Response: 204 No Content on success
// Error: 503 Service Unavailable if no encryption key is configured
func (h *SettingHandler) SetOracleKey(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.OracleKeyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.APIKey == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "apiKey is required")
		return
	}

	if err := h.settingService.SetOracleAPIKey(r.Context(), req.APIKey); err != nil {
		if errors.Is(err, service.ErrEncryptionUnavailable) {
			response.RespondError(w, http.StatusServiceUnavailable, "encryption unavailable", err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to store oracle key", err.Error())
		return
	}

	response.RespondNoContent(w)
}

// OracleKeyStatusResponse reports whether an oracle API key is stored.
type OracleKeyStatusResponse struct {
	Configured bool `json:"configured"`
}

// OracleKeyStatus handles GET requests to check whether an oracle API key is
// configured, without revealing the key itself.
//
// Endpoint: GET /api/settings/oracle-key
// Response: 200 OK with OracleKeyStatusResponse
func (h *SettingHandler) OracleKeyStatus(w http.ResponseWriter, r *http.Request) {
	configured, err := h.settingService.OracleKeyConfigured()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to check oracle key", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, OracleKeyStatusResponse{Configured: configured})
}
