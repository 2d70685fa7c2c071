// Package config handles loading and validating runtime configuration for the club API.
// Configuration values (like the database URL and the admin password) are read from
// environment variables rather than being hardcoded, so the same binary can run in dev,
// staging, and production without changing any code — just swap the environment variables.
//
// Load validates everything once at startup. A missing secret is a startup error, never
// a silent fallback to a built-in value.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	// godotenv reads a .env file and loads its key=value pairs into the process environment.
	// Convenient in development; in production real env vars are used instead.
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	Env            string        // "development", "staging", or "production"
	DatabaseURL    string        // PostgreSQL connection string
	MigrationsPath string        // Source URL for golang-migrate, e.g. "file://migrations"
	AdminPassword  string        // Password that unlocks the admin pages
	JWTSecret      string        // HMAC key used to sign admin session tokens
	TokenTTL       time.Duration // How long an admin session token stays valid
	PhotoBucket    string        // S3 bucket for game photos; empty disables uploads
	PhotoBaseURL   string        // Public URL prefix for photos; defaults to the bucket's S3 URL
	LogLevel       string        // zerolog level name: debug, info, warn, error
}

// IsProduction reports whether the server is running in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PhotosEnabled reports whether a photo bucket is configured.
func (c *Config) PhotosEnabled() bool {
	return c.PhotoBucket != ""
}

// Load reads configuration from the environment (and a .env file, if present) and
// validates it. The error lists every problem found, not just the first.
func Load() (*Config, error) {
	// The error is intentionally ignored: a missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an environment lookup function.
// Load uses os.Getenv; tests pass a map lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:           withDefault(getenv("PORT"), "8080"),
		Env:            withDefault(getenv("ENV"), "development"),
		DatabaseURL:    getenv("DATABASE_URL"),
		MigrationsPath: withDefault(getenv("MIGRATIONS_PATH"), "file://migrations"),
		AdminPassword:  getenv("ADMIN_PASSWORD"),
		JWTSecret:      getenv("JWT_SECRET"),
		PhotoBucket:    getenv("PHOTO_BUCKET"),
		PhotoBaseURL:   strings.TrimSuffix(getenv("PHOTO_BASE_URL"), "/"),
		LogLevel:       withDefault(getenv("LOG_LEVEL"), "info"),
	}

	var errs []error

	ttl, err := time.ParseDuration(withDefault(getenv("TOKEN_TTL"), "12h"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("TOKEN_TTL: %w", err))
	case ttl <= 0:
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	cfg.TokenTTL = ttl

	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if cfg.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if cfg.IsProduction() && len(cfg.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in production"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
