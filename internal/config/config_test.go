// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 3950 {
		t.Errorf("default port: expected 3950, got %d", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("default environment: expected development, got %q", cfg.Server.Environment)
	}
	if cfg.Database.Path != "/data/harborview.duckdb" {
		t.Errorf("default database path: expected /data/harborview.duckdb, got %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level: expected info, got %q", cfg.Logging.Level)
	}
	if cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("default rate limit window: expected 1m, got %v", cfg.Security.RateLimitWindow)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JELLYFIN_URL", "http://jellyfin:8096")
	t.Setenv("JELLYFIN_API_KEY", "env-key")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Jellyfin.URL != "http://jellyfin:8096" {
		t.Errorf("jellyfin url: expected env value, got %q", cfg.Jellyfin.URL)
	}
	if cfg.Jellyfin.APIKey != "env-key" {
		t.Errorf("jellyfin api key: expected env value, got %q", cfg.Jellyfin.APIKey)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port: expected 8080, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level: expected debug, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Environment != "production" {
		t.Errorf("environment: expected production, got %q", cfg.Server.Environment)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "http://a.example" {
		t.Errorf("cors origins: expected 2 trimmed entries, got %v", cfg.Security.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty database path", func(c *Config) { c.Database.Path = "" }, true},
		{"bogus environment", func(c *Config) { c.Server.Environment = "staging" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"JELLYFIN_URL", "jellyfin.url"},
		{"JELLYFIN_API_KEY", "jellyfin.api_key"},
		{"ENCRYPTION_KEY", "security.encryption_key"},
		{"HTTP_PORT", "server.port"},
		{"LOG_FORMAT", "logging.format"},
		{"PATH", ""}, // unrelated env vars are dropped
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}
