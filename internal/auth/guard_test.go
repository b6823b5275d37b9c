// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// staticKeys is a KeySource with a swappable key, standing in for the
// telemetry service.
type staticKeys struct {
	key string
}

func (s *staticKeys) ExpectedAPIKey() string {
	return s.key
}

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "no credential",
			headers: nil,
			want:    "",
		},
		{
			name:    "dedicated header",
			headers: map[string]string{HeaderAPIKey: "secret"},
			want:    "secret",
		},
		{
			name:    "bearer token",
			headers: map[string]string{"Authorization": "Bearer secret"},
			want:    "secret",
		},
		{
			name: "dedicated header wins over bearer",
			headers: map[string]string{
				HeaderAPIKey:    "from-header",
				"Authorization": "Bearer from-bearer",
			},
			want: "from-header",
		},
		{
			name:    "non-bearer authorization ignored",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			want:    "",
		},
		{
			name:    "bearer is case sensitive",
			headers: map[string]string{"Authorization": "bearer secret"},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/location", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ExtractKey(req); got != tt.want {
				t.Errorf("ExtractKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGuard_Authorize(t *testing.T) {
	guard := NewGuard(&staticKeys{key: "secret"})

	tests := []struct {
		name      string
		presented string
		want      bool
	}{
		{"matching key", "secret", true},
		{"wrong key", "wrong", false},
		{"empty key", "", false},
		{"prefix of key", "secre", false},
		{"key with suffix", "secrets", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := guard.Authorize(tt.presented); got != tt.want {
				t.Errorf("Authorize(%q) = %v, want %v", tt.presented, got, tt.want)
			}
		})
	}
}

func TestGuard_RotationTakesEffectImmediately(t *testing.T) {
	keys := &staticKeys{key: "old-key"}
	guard := NewGuard(keys)

	if !guard.Authorize("old-key") {
		t.Fatal("Expected old key to authorize before rotation")
	}

	keys.key = "new-key"

	if guard.Authorize("old-key") {
		t.Error("Old key must stop working after rotation")
	}
	if !guard.Authorize("new-key") {
		t.Error("New key must work after rotation")
	}
}

func TestGuard_AuthorizeRequest(t *testing.T) {
	guard := NewGuard(&staticKeys{key: "secret"})

	req := httptest.NewRequest(http.MethodPost, "/api/location", nil)
	req.Header.Set("Authorization", "Bearer secret")
	if !guard.AuthorizeRequest(req) {
		t.Error("Expected bearer credential to authorize")
	}

	bare := httptest.NewRequest(http.MethodPost, "/api/location", nil)
	if guard.AuthorizeRequest(bare) {
		t.Error("Expected request without credential to be rejected")
	}
}
