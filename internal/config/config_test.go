// Oneirolog - Dream Journal Engagement and Trending Analytics
// Copyright 2026 Oneirolog Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oneirolog/oneirolog

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8480 {
		t.Errorf("default port = %d, want 8480", cfg.Server.Port)
	}
	if cfg.Engagement.LikeWeight != 3 {
		t.Errorf("default like weight = %d, want 3", cfg.Engagement.LikeWeight)
	}
	if cfg.API.DefaultTrendingLimit != 5 {
		t.Errorf("default trending limit = %d, want 5", cfg.API.DefaultTrendingLimit)
	}
	if cfg.API.DefaultWindowDays != 7 {
		t.Errorf("default window days = %d, want 7", cfg.API.DefaultWindowDays)
	}
	if cfg.Retention.MaxAgeDays != 90 {
		t.Errorf("default retention age = %d, want 90", cfg.Retention.MaxAgeDays)
	}
	if cfg.Security.AuthMode != "jwt" {
		t.Errorf("default auth mode = %q, want jwt", cfg.Security.AuthMode)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Security.JWTSecret = strings.Repeat("s", 32)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults with secret",
			mutate: func(c *Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "jwt mode requires long secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "jwt_secret",
		},
		{
			name: "auth mode none allows empty secret",
			mutate: func(c *Config) {
				c.Security.AuthMode = "none"
				c.Security.JWTSecret = ""
			},
		},
		{
			name:    "unknown auth mode",
			mutate:  func(c *Config) { c.Security.AuthMode = "basic" },
			wantErr: "auth_mode",
		},
		{
			name:    "negative like weight",
			mutate:  func(c *Config) { c.Engagement.LikeWeight = -1 },
			wantErr: "like_weight",
		},
		{
			name:    "trending limit above max",
			mutate:  func(c *Config) { c.API.DefaultTrendingLimit = 100 },
			wantErr: "default_trending_limit",
		},
		{
			name:    "negative retention",
			mutate:  func(c *Config) { c.Retention.MaxAgeDays = -1 },
			wantErr: "max_age_days",
		},
		{
			name: "retention enabled requires interval",
			mutate: func(c *Config) {
				c.Retention.MaxAgeDays = 30
				c.Retention.Interval = 0
			},
			wantErr: "retention.interval",
		},
		{
			name: "retention disabled ignores interval",
			mutate: func(c *Config) {
				c.Retention.MaxAgeDays = 0
				c.Retention.Interval = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"AUTH_MODE", "security.auth_mode"},
		{"LIKE_WEIGHT", "engagement.like_weight"},
		{"RETENTION_MAX_AGE_DAYS", "retention.max_age_days"},
		{"TRENDING_CACHE_TTL", "api.trending_cache_ttl"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"SOME_RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "none")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("LIKE_WEIGHT", "5")
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000 from env", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("path = %q, want :memory: from env", cfg.Database.Path)
	}
	if cfg.Engagement.LikeWeight != 5 {
		t.Errorf("like weight = %d, want 5 from env", cfg.Engagement.LikeWeight)
	}
	if cfg.Retention.Interval != 24*time.Hour {
		t.Errorf("retention interval = %v, want default 24h", cfg.Retention.Interval)
	}
}
