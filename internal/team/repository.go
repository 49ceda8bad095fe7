package team

import (
	"context"
	"errors"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// Repository provides read operations on the teams table. Personal teams are
// written together with their owner by the auth repository.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Team, error)
	ListByUser(ctx context.Context, userID int64) ([]Team, error)
}
