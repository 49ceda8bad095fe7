package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/daap14/billing/internal/api/response"
	"github.com/daap14/billing/internal/auth"
)

// AdminChecker decides whether a user holds admin privilege.
type AdminChecker interface {
	RequireAdmin(ctx context.Context, userID int64) error
}

// RequireAdmin returns middleware that re-reads the acting user through the
// checker and rejects non-admins with 403 before the wrapped handler runs.
func RequireAdmin(checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			identity := GetIdentity(r.Context())
			if identity == nil {
				response.Err(w, http.StatusUnauthorized, response.CodeUnauthorized, "API key is required", requestID)
				return
			}

			if err := checker.RequireAdmin(r.Context(), identity.UserID); err != nil {
				if errors.Is(err, auth.ErrForbidden) {
					response.Err(w, http.StatusForbidden, response.CodeForbidden, "Admin access required", requestID)
					return
				}
				slog.Error("authorization check failed", "error", err, "userId", identity.UserID, "requestId", requestID)
				response.Err(w, http.StatusInternalServerError, response.CodeInternal, "Authorization check failed", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
