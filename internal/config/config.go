// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// minSessionSecretLen is the minimum accepted length for SESSION_SECRET.
// Anything shorter is trivially brute-forceable for HMAC signing.
const minSessionSecretLen = 32

// ErrWeakSessionSecret indicates SESSION_SECRET is too short to sign tokens.
var ErrWeakSessionSecret = errors.New("SESSION_SECRET must be at least 32 bytes")

// Config holds all application configuration.
// All fields are populated from environment variables; there are no
// hard-coded secrets and no module-level configuration state.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Session signing and lifetime
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Optional Redis URL. When set, logout revokes the session token
	// server-side in addition to clearing the cookie.
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Cookie settings
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.SessionSecret) < minSessionSecretLen {
		return nil, ErrWeakSessionSecret
	}
	return cfg, nil
}
