// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

// Package config loads and validates service configuration via Koanf v2
// with layered sources: built-in defaults, then an optional YAML file, then
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Oneirolog service.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Security   SecurityConfig   `koanf:"security"`
	API        APIConfig        `koanf:"api"`
	Engagement EngagementConfig `koanf:"engagement"`
	Retention  RetentionConfig  `koanf:"retention"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings.
//
// Environment Variables:
//   - DUCKDB_PATH: database file path (":memory:" for ephemeral)
//   - DUCKDB_MAX_MEMORY: memory limit, e.g. "2GB"
//   - DUCKDB_THREADS: worker threads (0 = runtime.NumCPU())
//   - SEED_DEMO_DATA: insert demo dreams and events on startup
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
	SeedDemo  bool   `koanf:"seed_demo"`
}

// SecurityConfig holds authentication and rate limiting settings.
//
// AuthMode "jwt" validates bearer tokens issued by the platform's auth
// service (shared HS256 secret); "none" treats every caller as anonymous
// and is intended for development only.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// AnonSalt is mixed into the one-way hash that stands in for identity
	// on anonymous views. It is not required for correctness, only to keep
	// raw hashed origins unlinkable across deployments.
	AnonSalt string `koanf:"anon_salt"`
}

// APIConfig bounds the trending query surface.
type APIConfig struct {
	DefaultTrendingLimit int           `koanf:"default_trending_limit"`
	MaxTrendingLimit     int           `koanf:"max_trending_limit"`
	DefaultWindowDays    int           `koanf:"default_window_days"`
	MaxWindowDays        int           `koanf:"max_window_days"`
	TrendingCacheTTL     time.Duration `koanf:"trending_cache_ttl"`
}

// EngagementConfig holds the scoring constants. LikeWeight is a product
// decision carried from the original behavior, not a derived value.
type EngagementConfig struct {
	LikeWeight int `koanf:"like_weight"`
}

// RetentionConfig controls the view-event retention sweep. MaxAgeDays 0
// disables the sweep entirely; reactions are never aged out.
type RetentionConfig struct {
	MaxAgeDays int           `koanf:"max_age_days"`
	Interval   time.Duration `koanf:"interval"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8480,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/oneirolog.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
			SeedDemo:  false,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			AnonSalt:        "",
		},
		API: APIConfig{
			DefaultTrendingLimit: 5,
			MaxTrendingLimit:     50,
			DefaultWindowDays:    7,
			MaxWindowDays:        36500,
			TrendingCacheTTL:     time.Minute,
		},
		Engagement: EngagementConfig{
			LikeWeight: 3,
		},
		Retention: RetentionConfig{
			MaxAgeDays: 90,
			Interval:   24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("security.jwt_secret must be at least 32 characters when auth_mode is jwt")
		}
	case "none":
		// Development mode, every caller is anonymous.
	default:
		return fmt.Errorf("security.auth_mode must be jwt or none, got %q", c.Security.AuthMode)
	}

	if c.Engagement.LikeWeight < 0 {
		return fmt.Errorf("engagement.like_weight must not be negative, got %d", c.Engagement.LikeWeight)
	}
	if c.API.DefaultTrendingLimit < 1 || c.API.DefaultTrendingLimit > c.API.MaxTrendingLimit {
		return fmt.Errorf("api.default_trending_limit must be in 1..%d, got %d",
			c.API.MaxTrendingLimit, c.API.DefaultTrendingLimit)
	}
	if c.Retention.MaxAgeDays < 0 {
		return fmt.Errorf("retention.max_age_days must not be negative, got %d", c.Retention.MaxAgeDays)
	}
	if c.Retention.MaxAgeDays > 0 && c.Retention.Interval <= 0 {
		return fmt.Errorf("retention.interval must be positive when retention is enabled")
	}

	return nil
}
