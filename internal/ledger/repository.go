package ledger

import "context"

// Repository provides read access to the subscription ledger.
type Repository interface {
	// ListByTeam returns the team's subscriptions, newest first, each with
	// its orders and their activations.
	ListByTeam(ctx context.Context, teamID int64) ([]Subscription, error)
}
