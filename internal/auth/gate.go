package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrForbidden is returned when the acting user may not perform a privileged
// operation.
var ErrForbidden = errors.New("forbidden")

// Gate decides whether an acting user holds admin privilege. It always reads
// the current user record, so a revoked admin flag takes effect immediately.
type Gate struct {
	users UserRepository
}

// NewGate creates a Gate that loads users from the given repository.
func NewGate(users UserRepository) *Gate {
	return &Gate{users: users}
}

// RequireAdmin returns nil when userID names an existing admin user,
// ErrForbidden when the user is missing or not an admin, and a wrapped
// store error otherwise.
func (g *Gate) RequireAdmin(ctx context.Context, userID int64) error {
	u, err := g.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("loading acting user: %w", err)
	}
	if !u.IsAdmin {
		return ErrForbidden
	}
	return nil
}
