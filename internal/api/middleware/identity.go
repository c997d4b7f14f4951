// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/finledger/holdings-backend/internal/api/response"
)

type contextKey string

// userIDKey carries the authenticated caller's identity through the request context.
const userIDKey contextKey = "userID"

// Identity extracts the authenticated caller's identity from the X-User-ID
// header, set by the external auth layer in front of this service. Requests
// without an identity are rejected with 401; ownership itself is enforced by
// the services against each account's owner.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if userID == "" {
			response.RespondError(w, http.StatusUnauthorized, "missing caller identity", "X-User-ID header is required")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the caller identity stored by Identity, or "" if absent.
func UserID(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
