package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/daap14/billing/internal/database"
)

// PostgresRepository implements UserRepository on top of a pgx connection.
type PostgresRepository struct {
	db database.DBTX
}

// NewRepository creates a new UserRepository backed by the given pool or transaction.
func NewRepository(db database.DBTX) UserRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, name, hashed_password, email_verified, is_admin,
	locale, timezone, api_key_prefix, api_key_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.HashedPassword, &u.EmailVerified, &u.IsAdmin,
		&u.Locale, &u.Timezone, &u.ApiKeyPrefix, &u.ApiKeyHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return &u, nil
}

// CreateWithPersonalTeam inserts a new user record together with a personal
// team owned by it. Both rows are written by a single statement.
func (r *PostgresRepository) CreateWithPersonalTeam(ctx context.Context, u *User) (int64, error) {
	query := `
		WITH new_user AS (
			INSERT INTO users (email, name, hashed_password, email_verified, is_admin,
			                   locale, timezone, api_key_prefix, api_key_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, name, created_at, updated_at
		), new_team AS (
			INSERT INTO teams (name, is_personal, user_id)
			SELECT name, TRUE, id FROM new_user
			RETURNING id
		)
		SELECT new_user.id, new_user.created_at, new_user.updated_at, new_team.id
		FROM new_user, new_team`

	var teamID int64
	err := r.db.QueryRow(ctx, query,
		u.Email,
		u.Name,
		u.HashedPassword,
		u.EmailVerified,
		u.IsAdmin,
		u.Locale,
		u.Timezone,
		u.ApiKeyPrefix,
		u.ApiKeyHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &teamID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	return teamID, nil
}

// GetByID retrieves a single user by id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a single user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// FindByPrefix returns users whose API key starts with the given prefix.
func (r *PostgresRepository) FindByPrefix(ctx context.Context, prefix string) ([]User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE api_key_prefix = $1`, userColumns)

	rows, err := r.db.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("finding users by prefix: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	if users == nil {
		users = []User{}
	}

	return users, nil
}

// CountAll returns the total number of users.
func (r *PostgresRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}
