// Package response holds the JSON response helpers shared by all handlers.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the error envelope for every non-2xx response. Error is
// the stable, user-facing summary; Details carries the underlying error text
// so callers can see which entity or rule caused the rejection.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with the given status code. A nil data
// writes the status line only. An encode failure at this point cannot be
// reported to the client anymore, so it is logged and swallowed.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

// RespondNoContent writes a bare 204, used by delete operations and by
// writes whose result the caller already knows.
func RespondNoContent(w http.ResponseWriter) {
	RespondJSON(w, http.StatusNoContent, nil)
}

// RespondError writes an ErrorResponse with the given status code. Pass the
// wrapped error's text as details; an empty details is omitted from the body.
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	if s, ok := details.(string); ok && s == "" {
		details = nil
	}
	RespondJSON(w, status, ErrorResponse{Error: message, Details: details})
}
