package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/daap14/billing/internal/database"
)

const teamColumns = `id, name, is_personal, user_id, created_at, updated_at`

// PostgresRepository implements Repository on top of a pgx connection.
type PostgresRepository struct {
	db database.DBTX
}

// NewRepository creates a new Repository backed by the given pool or transaction.
func NewRepository(db database.DBTX) Repository {
	return &PostgresRepository{db: db}
}

// scanTeam reads one row selected with teamColumns. pgx.Rows satisfies
// pgx.Row, so both single and multi-row paths share it.
func scanTeam(row pgx.Row) (Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.Name, &t.IsPersonal, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Team, error) {
	t, err := scanTeam(r.db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team %d: %w", id, err)
	}
	return &t, nil
}

// ListByUser returns the teams owned by userID, oldest first. The personal
// team created with the user therefore comes first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]Team, error) {
	query := `SELECT ` + teamColumns + `
		FROM teams
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	teams := []Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	return teams, nil
}
