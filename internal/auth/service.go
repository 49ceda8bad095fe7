package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidKey is returned when the provided API key does not match any user.
var ErrInvalidKey = errors.New("invalid API key")

const (
	keyPrefix    = "bill_"
	keyPrefixLen = 12
)

// NewUser holds the caller-supplied fields for provisioning a user.
type NewUser struct {
	Email    string
	Name     string
	Locale   string
	Timezone *string
	IsAdmin  bool
}

// Provisioned is the result of creating a user. APIKey is the raw key and is
// only available at creation time.
type Provisioned struct {
	User   *User
	TeamID int64
	APIKey string
}

// Service provides authentication and user provisioning.
type Service struct {
	userRepo   UserRepository
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(userRepo UserRepository, bcryptCost int) *Service {
	return &Service{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
	}
}

// GenerateKey creates a new API key. Returns the raw key, its lookup prefix,
// and the bcrypt hash. The raw key is: 32 random bytes -> base64url -> prepend "bill_".
func (s *Service) GenerateKey() (rawKey, prefix, hash string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	rawKey = keyPrefix + base64.RawURLEncoding.EncodeToString(b)
	prefix = rawKey[:keyPrefixLen]

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(rawKey), s.bcryptCost)
	if err != nil {
		return "", "", "", fmt.Errorf("hashing key: %w", err)
	}
	hash = string(hashBytes)

	return rawKey, prefix, hash, nil
}

// Authenticate resolves a raw API key to an Identity. It extracts the prefix,
// looks up candidates, and bcrypt-compares each one.
func (s *Service) Authenticate(ctx context.Context, rawKey string) (*Identity, error) {
	if len(rawKey) < keyPrefixLen || !strings.HasPrefix(rawKey, keyPrefix) {
		return nil, ErrInvalidKey
	}

	candidates, err := s.userRepo.FindByPrefix(ctx, rawKey[:keyPrefixLen])
	if err != nil {
		return nil, fmt.Errorf("finding users by prefix: %w", err)
	}

	for _, u := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(u.ApiKeyHash), []byte(rawKey)) == nil {
			return &Identity{
				UserID:  u.ID,
				Email:   u.Email,
				Name:    u.Name,
				IsAdmin: u.IsAdmin,
			}, nil
		}
	}

	return nil, ErrInvalidKey
}

// CreateUser provisions a user with a personal team and a fresh API key.
func (s *Service) CreateUser(ctx context.Context, nu NewUser) (*Provisioned, error) {
	rawKey, prefix, hash, err := s.GenerateKey()
	if err != nil {
		return nil, err
	}

	locale := nu.Locale
	if locale == "" {
		locale = "en"
	}

	u := &User{
		Email:        strings.ToLower(strings.TrimSpace(nu.Email)),
		Name:         strings.TrimSpace(nu.Name),
		IsAdmin:      nu.IsAdmin,
		Locale:       locale,
		Timezone:     nu.Timezone,
		ApiKeyPrefix: prefix,
		ApiKeyHash:   hash,
	}

	teamID, err := s.userRepo.CreateWithPersonalTeam(ctx, u)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &Provisioned{User: u, TeamID: teamID, APIKey: rawKey}, nil
}

// BootstrapAdmin creates the initial admin if the users table is empty.
// Returns the raw API key (only displayed once). If users already exist, returns empty string.
func (s *Service) BootstrapAdmin(ctx context.Context, email string) (string, error) {
	count, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return "", fmt.Errorf("counting users: %w", err)
	}

	if count > 0 {
		return "", nil
	}

	p, err := s.CreateUser(ctx, NewUser{
		Email:   email,
		Name:    "admin",
		IsAdmin: true,
	})
	if err != nil {
		return "", fmt.Errorf("creating admin: %w", err)
	}

	slog.Info("Admin API key created", "email", p.User.Email, "key", p.APIKey)

	return p.APIKey, nil
}
