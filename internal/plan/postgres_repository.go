package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

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

// Create inserts a new plan and fills in its generated id.
func (r *PostgresRepository) Create(ctx context.Context, p *Plan) error {
	query := `
		INSERT INTO plans (name, price)
		VALUES ($1, $2)
		RETURNING id`

	if err := r.db.QueryRow(ctx, query, p.Name, p.Price).Scan(&p.ID); err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

// GetByID retrieves a single plan by its id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	query := `SELECT id, name, price FROM plans WHERE id = $1`

	var p Plan
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("querying plan: %w", err)
	}
	return &p, nil
}

// List retrieves all plans ordered by id.
func (r *PostgresRepository) List(ctx context.Context) ([]Plan, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, price FROM plans ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan rows: %w", err)
	}

	if plans == nil {
		plans = []Plan{}
	}
	return plans, nil
}

// Update sets name and price on the plan with p.ID.
func (r *PostgresRepository) Update(ctx context.Context, p *Plan) error {
	query := `
		UPDATE plans
		SET name = $1, price = $2
		WHERE id = $3`

	result, err := r.db.Exec(ctx, query, p.Name, p.Price, p.ID)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}
