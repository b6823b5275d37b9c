// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

// Package config loads Fieldtrace configuration with Koanf v2 from layered
// sources: built-in defaults, an optional YAML config file, and environment
// variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Fieldtrace server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Backup   BackupConfig   `koanf:"backup"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// StoreConfig selects and configures the persisted document store.
type StoreConfig struct {
	// Backend is the store implementation: file, badger, or memory.
	// The file backend writes a single JSON document; badger keeps the
	// document in a BadgerDB value log for crash-safe storage.
	Backend string `koanf:"backend"`

	// Path is the document file path for the file backend, or the
	// database directory for the badger backend.
	Path string `koanf:"path"`
}

// BackupConfig holds backup snapshot settings.
type BackupConfig struct {
	// Dir is the directory where backup snapshots are written.
	Dir string `koanf:"dir"`

	// MaxCount is the maximum number of snapshots retained; older
	// snapshots are pruned after each backup. 0 disables pruning.
	MaxCount int `koanf:"max_count"`

	// Interval enables scheduled backups when > 0.
	Interval time.Duration `koanf:"interval"`
}

// SecurityConfig holds access-guard and HTTP hardening settings.
type SecurityConfig struct {
	// APIKey is an environment-level override for the shared secret.
	// When set it supersedes the key persisted in the document, which
	// supports rotation without restart and key pinning in deployments.
	APIKey string `koanf:"api_key"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    3000,
			Timeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend: "file",
			Path:    "data/fieldtrace.json",
		},
		Backup: BackupConfig{
			Dir:      "backups",
			MaxCount: 50,
			Interval: 0, // scheduled backups disabled by default
		},
		Security: SecurityConfig{
			APIKey:            "",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Store.Backend {
	case "file", "badger", "memory":
	default:
		return fmt.Errorf("store.backend must be one of file, badger, memory; got %q", c.Store.Backend)
	}
	if c.Store.Backend != "memory" && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
	}
	if c.Backup.MaxCount < 0 {
		return fmt.Errorf("backup.max_count must not be negative, got %d", c.Backup.MaxCount)
	}
	if c.Backup.Interval < 0 {
		return fmt.Errorf("backup.interval must not be negative, got %s", c.Backup.Interval)
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	return nil
}

// Load loads the configuration from defaults, config file, and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
