package auth

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when another user already has the email.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository provides operations on the users table.
type UserRepository interface {
	// CreateWithPersonalTeam inserts the user and its personal team in one
	// statement and returns the team id.
	CreateWithPersonalTeam(ctx context.Context, user *User) (int64, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	FindByPrefix(ctx context.Context, prefix string) ([]User, error)
	CountAll(ctx context.Context) (int, error)
}
