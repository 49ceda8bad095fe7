package plan

import (
	"context"
	"errors"
)

// ErrPlanNotFound is returned when a plan record is not found.
var ErrPlanNotFound = errors.New("plan not found")

// ErrInvalidPlan is returned when a plan name or price fails validation.
var ErrInvalidPlan = errors.New("invalid plan")

// ErrStoreUnavailable is returned when the record store fails. It lets
// callers tell an empty catalog apart from an unreachable one.
var ErrStoreUnavailable = errors.New("plan store unavailable")

// Repository provides persistence for the plans table.
type Repository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id int64) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	// Update overwrites name and price of an existing plan. Returns
	// ErrPlanNotFound when no row has the given id.
	Update(ctx context.Context, p *Plan) error
}
