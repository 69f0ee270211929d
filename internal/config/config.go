// Package config provides centralized configuration loaded from
// environment variables. Shared by both cmd/api and cmd/trendctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pitchside/trendlens/internal/trend"
)

// --------------------------------------------------------------------------
// Table names, single source of truth for queries
// --------------------------------------------------------------------------

const (
	TeamsTable          = "teams"
	MatchesTable        = "matches"
	TeamMatchStatsTable = "team_match_stats"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration

	// Trend engine tuning. Fixed server-side, never client-tunable.
	TrendMatchListCap  int
	TrendTierMedium    int
	TrendTierHigh      int
	TrendRatePrecision int
	TrendFetchTimeout  time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. The database URL is required; use LoadOffline for commands
// that run against a JSON dataset instead.
func Load() (*Config, error) {
	cfg := LoadOffline()
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}
	return cfg, nil
}

// LoadOffline reads configuration without requiring a database URL.
func LoadOffline() *Config {
	return &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     time.Duration(envInt("CACHE_TTL_SECONDS", 600)) * time.Second,

		TrendMatchListCap:  envInt("TREND_MATCH_LIST_CAP", 100),
		TrendTierMedium:    envInt("TREND_TIER_MEDIUM", 10),
		TrendTierHigh:      envInt("TREND_TIER_HIGH", 30),
		TrendRatePrecision: envInt("TREND_RATE_PRECISION", 3),
		TrendFetchTimeout:  time.Duration(envInt("TREND_FETCH_TIMEOUT_MS", 5000)) * time.Millisecond,
	}
}

// TrendConfig maps the engine tuning knobs into a trend.Config.
func (c *Config) TrendConfig() trend.Config {
	return trend.Config{
		MatchListCap:  c.TrendMatchListCap,
		TierMedium:    c.TrendTierMedium,
		TierHigh:      c.TrendTierHigh,
		RatePrecision: c.TrendRatePrecision,
		FetchTimeout:  c.TrendFetchTimeout,
	}
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
