// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

// Package auth gates mutating endpoints behind the shared API key.
//
// The model is deliberately small: one symmetric secret, no identities,
// no sessions. Clients present the key either in the X-API-Key header or
// as a Bearer token; X-API-Key wins when both are present. The expected
// key is re-read from the key source on every request, so a rotation
// takes effect immediately without restart.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// HeaderAPIKey is the primary credential header.
const HeaderAPIKey = "X-API-Key"

// bearerPrefix introduces the fallback credential in Authorization.
const bearerPrefix = "Bearer "

// KeySource yields the secret requests must match. The telemetry service
// implements it, folding in the environment override.
type KeySource interface {
	ExpectedAPIKey() string
}

// Guard authorizes requests against the current API key.
type Guard struct {
	keys KeySource
}

// NewGuard creates a guard reading the expected key from keys.
func NewGuard(keys KeySource) *Guard {
	return &Guard{keys: keys}
}

// ExtractKey pulls the presented credential from a request. X-API-Key is
// checked first; Authorization: Bearer is the fallback. Returns "" when
// neither carries a key.
func ExtractKey(r *http.Request) string {
	if key := r.Header.Get(HeaderAPIKey); key != "" {
		return key
	}
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, bearerPrefix) {
		return strings.TrimPrefix(authz, bearerPrefix)
	}
	return ""
}

// Authorize reports whether the presented key matches the expected one.
// The comparison is constant-time so the match cannot be probed byte by
// byte through response timing.
func (g *Guard) Authorize(presented string) bool {
	if presented == "" {
		return false
	}
	expected := g.keys.ExpectedAPIKey()
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

// AuthorizeRequest extracts and checks the credential in one step.
func (g *Guard) AuthorizeRequest(r *http.Request) bool {
	return g.Authorize(ExtractKey(r))
}
