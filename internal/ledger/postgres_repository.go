package ledger

import (
	"context"
	"fmt"

	"github.com/daap14/billing/internal/database"
)

// PostgresRepository implements Repository on top of a pgx connection.
type PostgresRepository struct {
	db database.DBTX
}

// NewPostgresRepository creates a new Repository backed by the given pool or transaction.
func NewPostgresRepository(db database.DBTX) Repository {
	return &PostgresRepository{db: db}
}

// ListByTeam loads subscriptions in one query and their orders in a second.
func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID int64) ([]Subscription, error) {
	query := `
		SELECT s.id, s.status, s.team_id, s.plan_id, p.name, s.created_at, s.updated_at
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
		WHERE s.team_id = $1
		ORDER BY s.created_at DESC, s.id DESC`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []Subscription{}
	index := map[int64]int{}
	var ids []int64
	for rows.Next() {
		var s Subscription
		var status string
		if err := rows.Scan(&s.ID, &status, &s.TeamID, &s.PlanID, &s.PlanName, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning subscription row: %w", err)
		}
		if s.Status, err = ParseStatus(status); err != nil {
			return nil, fmt.Errorf("subscription %d: %w", s.ID, err)
		}
		s.Orders = []Order{}
		index[s.ID] = len(subs)
		ids = append(ids, s.ID)
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subscription rows: %w", err)
	}

	if len(ids) == 0 {
		return subs, nil
	}

	orders, err := r.listOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		i := index[o.SubscriptionID]
		subs[i].Orders = append(subs[i].Orders, o)
	}

	return subs, nil
}

func (r *PostgresRepository) listOrders(ctx context.Context, subscriptionIDs []int64) ([]Order, error) {
	query := `
		SELECT o.id, o.paid_for, o.subscription_id, o.created_at, o.updated_at,
		       a.id, a.activation_date, a.cycle_type, a.cycle_number, a.amount_paid,
		       a.start_date, a.end_date, a.created_at, a.updated_at
		FROM orders o
		JOIN subscription_activations a ON a.id = o.subscription_activation_id
		WHERE o.subscription_id = ANY($1)
		ORDER BY a.cycle_number ASC, o.id ASC`

	rows, err := r.db.Query(ctx, query, subscriptionIDs)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		var cycleType string
		err := rows.Scan(
			&o.ID, &o.PaidFor, &o.SubscriptionID, &o.CreatedAt, &o.UpdatedAt,
			&o.Activation.ID, &o.Activation.ActivationDate, &cycleType,
			&o.Activation.CycleNumber, &o.Activation.AmountPaid,
			&o.Activation.StartDate, &o.Activation.EndDate,
			&o.Activation.CreatedAt, &o.Activation.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		if o.Activation.CycleType, err = ParseCycleType(cycleType); err != nil {
			return nil, fmt.Errorf("activation %d: %w", o.Activation.ID, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}
