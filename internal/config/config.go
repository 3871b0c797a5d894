package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string

	// TokenSecret signs and verifies session tokens. Required.
	TokenSecret string

	// TokenTTL is the lifetime of an issued token.
	TokenTTL time.Duration

	// RefreshThreshold: a non-forced refresh is a no-op while the stored
	// token still has more than this much life left.
	RefreshThreshold time.Duration

	// AllowedOrigins is the CORS allow-list for the admin frontend.
	AllowedOrigins []string

	// LoginRatePerMin caps login attempts per client IP.
	LoginRatePerMin int

	// StoreTimeout bounds each request's database work. A request that is
	// still waiting on the store past this deadline fails 503 instead of
	// hanging until the client gives up.
	StoreTimeout time.Duration
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
	ErrMissingTokenSecret = errors.New("TOKEN_SECRET is not set")
)

// LoadFromEnv loads server configuration from environment variables.
//
// Environment variables:
//   - PORT: listen port (default: 5050)
//   - DATABASE_URL: Postgres DSN (required)
//   - TOKEN_SECRET: HMAC secret for session tokens (required)
//   - TOKEN_TTL: token lifetime, Go duration (default: 24h)
//   - TOKEN_REFRESH_THRESHOLD: see Config.RefreshThreshold (default: 1h)
//   - ALLOWED_ORIGINS: comma-separated CORS origins (default: http://localhost:5173)
//   - LOGIN_RATE_PER_MIN: login attempts per IP per minute (default: 10)
//   - STORE_TIMEOUT: per-request database deadline, Go duration (default: 10s)
func LoadFromEnv() Config {
	cfg := Config{
		Port:             envOr("PORT", "5050"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		TokenSecret:      os.Getenv("TOKEN_SECRET"),
		TokenTTL:         durationOr("TOKEN_TTL", 24*time.Hour),
		RefreshThreshold: durationOr("TOKEN_REFRESH_THRESHOLD", time.Hour),
		LoginRatePerMin:  intOr("LOGIN_RATE_PER_MIN", 10),
		StoreTimeout:     durationOr("STORE_TIMEOUT", 10*time.Second),
	}

	origins := envOr("ALLOWED_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.TokenSecret == "" {
		return ErrMissingTokenSecret
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
