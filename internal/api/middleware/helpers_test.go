package middleware_test

import (
	"context"
	"net/http"

	"github.com/daap14/billing/internal/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

type mockAuthenticator struct {
	authenticateFn func(ctx context.Context, rawKey string) (*auth.Identity, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, rawKey string) (*auth.Identity, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, rawKey)
	}
	return nil, auth.ErrInvalidKey
}

type mockAdminChecker struct {
	requireAdminFn func(ctx context.Context, userID int64) error
}

func (m *mockAdminChecker) RequireAdmin(ctx context.Context, userID int64) error {
	if m.requireAdminFn != nil {
		return m.requireAdminFn(ctx, userID)
	}
	return auth.ErrForbidden
}
