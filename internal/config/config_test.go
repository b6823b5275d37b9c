// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("store.backend = %q, want file", cfg.Store.Backend)
	}
	if cfg.Store.Path != "data/fieldtrace.json" {
		t.Errorf("store.path = %q", cfg.Store.Path)
	}
	if cfg.Backup.Dir != "backups" {
		t.Errorf("backup.dir = %q, want backups", cfg.Backup.Dir)
	}
	if cfg.Backup.MaxCount != 50 {
		t.Errorf("backup.max_count = %d, want 50", cfg.Backup.MaxCount)
	}
	if cfg.Backup.Interval != 0 {
		t.Errorf("backup.interval = %s, want 0 (disabled)", cfg.Backup.Interval)
	}
	if cfg.Security.APIKey != "" {
		t.Errorf("security.api_key = %q, want empty (no override)", cfg.Security.APIKey)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info", cfg.Logging.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("API_KEY", "env-secret")
	t.Setenv("BACKUP_INTERVAL", "6h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("store.backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Security.APIKey != "env-secret" {
		t.Errorf("security.api_key = %q, want env-secret", cfg.Security.APIKey)
	}
	if cfg.Backup.Interval != 6*time.Hour {
		t.Errorf("backup.interval = %s, want 6h", cfg.Backup.Interval)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("security.cors_origins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
}

func TestEnvIgnoresUnmappedVariables(t *testing.T) {
	t.Setenv("RANDOM_DEPLOY_VAR", "noise")

	if _, err := Load(); err != nil {
		t.Fatalf("Load failed with unmapped env var present: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `server:
  port: 4000
store:
  backend: memory
backup:
  max_count: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("server.port = %d, want 4000 from file", cfg.Server.Port)
	}
	if cfg.Backup.MaxCount != 5 {
		t.Errorf("backup.max_count = %d, want 5 from file", cfg.Backup.MaxCount)
	}
}

func TestEnvBeatsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 4000\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PORT", "5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("server.port = %d, want env to win over file", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, true},
		{"file backend without path", func(c *Config) { c.Store.Path = "" }, true},
		{"memory backend without path", func(c *Config) { c.Store.Backend = "memory"; c.Store.Path = "" }, false},
		{"negative retention", func(c *Config) { c.Backup.MaxCount = -1 }, true},
		{"negative backup interval", func(c *Config) { c.Backup.Interval = -time.Hour }, true},
		{"zero rate limit while enabled", func(c *Config) { c.Security.RateLimitReqs = 0 }, true},
		{"zero rate limit while disabled", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}
