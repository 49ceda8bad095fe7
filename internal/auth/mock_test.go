package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/daap14/billing/internal/auth"
)

// --- Mock User Repository ---

type mockUserRepo struct {
	createFn       func(ctx context.Context, u *auth.User) (int64, error)
	getByIDFn      func(ctx context.Context, id int64) (*auth.User, error)
	getByEmailFn   func(ctx context.Context, email string) (*auth.User, error)
	findByPrefixFn func(ctx context.Context, prefix string) ([]auth.User, error)
	countAllFn     func(ctx context.Context) (int, error)

	mu      sync.Mutex
	created []auth.User
}

func (m *mockUserRepo) CreateWithPersonalTeam(ctx context.Context, u *auth.User) (int64, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.created) + 1)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.created = append(m.created, *u)
	return u.ID + 100, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) FindByPrefix(ctx context.Context, prefix string) ([]auth.User, error) {
	if m.findByPrefixFn != nil {
		return m.findByPrefixFn(ctx, prefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []auth.User
	for _, u := range m.created {
		if u.ApiKeyPrefix == prefix {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created), nil
}
