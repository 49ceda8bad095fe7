package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            int           `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" required:"true" validate:"required,url"`
	DBMaxConns      int32         `envconfig:"DB_MAX_CONNS" default:"10" validate:"min=1,max=200"`
	Version         string        `envconfig:"VERSION" default:"dev"`
	BcryptCost      int           `envconfig:"BCRYPT_COST" default:"12" validate:"min=4,max=31"`
	AdminEmail      string        `envconfig:"ADMIN_EMAIL" default:"admin@example.com" validate:"required,email"`
	MigrateOnStart  bool          `envconfig:"MIGRATE_ON_START" default:"true"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s" validate:"gt=0"`
}

// Load reads an optional .env file, then configuration from environment
// variables into a Config struct, and validates it. Variables already set in
// the environment take precedence over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
