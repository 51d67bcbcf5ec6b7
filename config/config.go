// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds everything the service needs at startup. It is built
// once in main and injected; nothing reads the environment after Load.
type Config struct {
	Env              string `koanf:"env"`
	Port             string `koanf:"port" validate:"required"`
	DatabaseURL      string `koanf:"database_url" validate:"required"`
	JWTSecret        string `koanf:"jwt_secret" validate:"required,min=16"`
	JWTExpiryMinutes int    `koanf:"jwt_expiry_minutes" validate:"required,min=1"`
}

// JWTExpiry returns the configured token lifetime as a duration.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

// Load reads LANTERN_-prefixed environment variables (a .env file is
// honored if present) and validates the result.
func Load() (*Config, error) {
	godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.Provider("LANTERN_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LANTERN_"))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{
		Env:              "development",
		Port:             "8080",
		JWTExpiryMinutes: 60,
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
