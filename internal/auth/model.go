package auth

import "time"

// User represents a row in the users table.
type User struct {
	ID             int64
	Email          string
	Name           string
	HashedPassword *string
	EmailVerified  bool
	IsAdmin        bool
	Locale         string
	Timezone       *string
	ApiKeyPrefix   string
	ApiKeyHash     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Identity is stored in the request context after authentication.
type Identity struct {
	UserID  int64
	Email   string
	Name    string
	IsAdmin bool
}
