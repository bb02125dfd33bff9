// Harborview - Jellyfin Analytics Dashboard
// Copyright 2026 Harborview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harborview/harborview

// Package config provides process-level configuration for Harborview,
// loaded via Koanf v2 with layered sources (env > file > defaults).
//
// Runtime Jellyfin connection settings live in the settings store and are
// managed through the API; the Jellyfin values here are only a bootstrap
// fallback used before the store has rows.
package config

import (
	"fmt"
	"time"

	"github.com/harborview/harborview/internal/validation"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Jellyfin JellyfinConfig `koanf:"jellyfin"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment" validate:"oneof=development production"`
	StaticDir   string        `koanf:"static_dir"` // dashboard build output, served when present
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path" validate:"required"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = use runtime.NumCPU()
}

// JellyfinConfig holds the bootstrap Jellyfin connection fallback.
// These values are consulted only when the settings store has no
// jellyfin.url / jellyfin.apiKey rows yet.
type JellyfinConfig struct {
	URL    string `koanf:"url"`
	APIKey string `koanf:"api_key"`
}

// SecurityConfig holds encryption and HTTP hardening settings.
type SecurityConfig struct {
	// EncryptionKey protects encrypted settings at rest. Settings writes
	// to encrypted keys fail when it is empty.
	EncryptionKey string `koanf:"encryption_key"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks configuration invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
