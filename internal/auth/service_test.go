package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/daap14/billing/internal/auth"
)

func TestGenerateKey(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&mockUserRepo{}, bcrypt.MinCost)

	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rawKey, "bill_"))
	assert.Len(t, prefix, 12)
	assert.Equal(t, rawKey[:12], prefix)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawKey)))

	other, _, _, err := svc.GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, rawKey, other)
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{}
	svc := auth.NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	p, err := svc.CreateUser(ctx, auth.NewUser{Email: "alice@example.com", Name: "Alice", IsAdmin: true})
	require.NoError(t, err)

	identity, err := svc.Authenticate(ctx, p.APIKey)
	require.NoError(t, err)
	assert.Equal(t, p.User.ID, identity.UserID)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.Equal(t, "Alice", identity.Name)
	assert.True(t, identity.IsAdmin)
}

func TestAuthenticate_InvalidKeys(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{}
	svc := auth.NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	p, err := svc.CreateUser(ctx, auth.NewUser{Email: "alice@example.com", Name: "Alice"})
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"too short", "bill_x"},
		{"wrong scheme", "key_" + p.APIKey[5:]},
		{"same prefix wrong secret", p.APIKey[:12] + "tampered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tt.key)
			assert.ErrorIs(t, err, auth.ErrInvalidKey)
		})
	}
}

func TestAuthenticate_StoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	svc := auth.NewService(&mockUserRepo{
		findByPrefixFn: func(_ context.Context, _ string) ([]auth.User, error) {
			return nil, storeErr
		},
	}, bcrypt.MinCost)

	_, err := svc.Authenticate(context.Background(), "bill_abcdefghijklmnop")
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, auth.ErrInvalidKey)
}

func TestCreateUser_NormalizesInput(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{}
	svc := auth.NewService(repo, bcrypt.MinCost)

	p, err := svc.CreateUser(context.Background(), auth.NewUser{
		Email: "  Bob@Example.COM ",
		Name:  " Bob ",
	})
	require.NoError(t, err)

	assert.Equal(t, "bob@example.com", p.User.Email)
	assert.Equal(t, "Bob", p.User.Name)
	assert.Equal(t, "en", p.User.Locale)
	assert.False(t, p.User.IsAdmin)
	assert.Equal(t, p.User.ID+100, p.TeamID)
	assert.Equal(t, p.APIKey[:12], p.User.ApiKeyPrefix)
	assert.NotContains(t, p.User.ApiKeyHash, p.APIKey)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := auth.NewService(&mockUserRepo{
		createFn: func(_ context.Context, _ *auth.User) (int64, error) {
			return 0, auth.ErrDuplicateEmail
		},
	}, bcrypt.MinCost)

	_, err := svc.CreateUser(context.Background(), auth.NewUser{Email: "a@example.com", Name: "A"})
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

func TestBootstrapAdmin_EmptyStore(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{}
	svc := auth.NewService(repo, bcrypt.MinCost)

	key, err := svc.BootstrapAdmin(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "bill_"))

	require.Len(t, repo.created, 1)
	assert.True(t, repo.created[0].IsAdmin)
	assert.Equal(t, "root@example.com", repo.created[0].Email)
}

func TestBootstrapAdmin_UsersExist(t *testing.T) {
	t.Parallel()

	created := false
	svc := auth.NewService(&mockUserRepo{
		countAllFn: func(_ context.Context) (int, error) { return 3, nil },
		createFn: func(_ context.Context, _ *auth.User) (int64, error) {
			created = true
			return 0, nil
		},
	}, bcrypt.MinCost)

	key, err := svc.BootstrapAdmin(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.False(t, created)
}
