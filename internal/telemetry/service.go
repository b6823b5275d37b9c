// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

// Package telemetry owns the in-memory document and implements the core
// server-side state logic: interval resolution, location ingest, settings
// mutation, and API key rotation.
//
// Exactly one Service (and so one document copy) exists per process. Every
// mutation entry point is serialized behind the service mutex, and each
// successful mutation is followed by a store save before the operation
// completes. A failed save is logged and surfaced to the caller, but the
// in-memory mutation stays applied: the next successful save rewrites the
// full document, so durability self-heals once the store recovers. There
// is no retry queue (see DESIGN.md).
package telemetry

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fieldtrace/fieldtrace/internal/logging"
	"github.com/fieldtrace/fieldtrace/internal/metrics"
	"github.com/fieldtrace/fieldtrace/internal/models"
	"github.com/fieldtrace/fieldtrace/internal/store"
)

// MinIntervalMs is the floor for every stored polling interval (10s).
// Values below it are rejected at the boundary, never stored. The floor
// applies on set only; resolve returns whatever is stored.
const MinIntervalMs int64 = 10000

// generatedKeyBytes is the entropy of a generated API key (hex-encoded).
const generatedKeyBytes = 16

// Scope names accepted by SetScopedInterval.
const (
	ScopeUser = "user"
	ScopeTeam = "team"
)

// Sentinel errors returned by mutation entry points.
var (
	// ErrIntervalTooSmall rejects intervals below MinIntervalMs.
	ErrIntervalTooSmall = fmt.Errorf("interval must be at least %dms", MinIntervalMs)

	// ErrInvalidScope rejects scopes other than "user" and "team".
	ErrInvalidScope = errors.New("scope must be user or team")

	// ErrMissingUserID rejects location records without a user ID.
	ErrMissingUserID = errors.New("userId is required")

	// ErrSaveFailed wraps store save failures. The in-memory mutation
	// stays applied when this is returned.
	ErrSaveFailed = errors.New("failed to persist document")
)

// Service owns the document and serializes all access to it.
type Service struct {
	mu  sync.RWMutex
	doc *models.Document
	st  store.Store

	// keyOverride, when non-empty, supersedes the persisted API key for
	// authorization. Comes from the API_KEY environment setting.
	keyOverride string

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewService loads the document from the store and returns a ready
// service. A missing or corrupt document falls back to defaults with a
// warning; load is never fatal.
func NewService(ctx context.Context, st store.Store, keyOverride string) *Service {
	doc, err := st.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logging.Info().Msg("No persisted document found, starting with defaults")
		doc = models.DefaultDocument(keyOverride)
	case err != nil:
		logging.Warn().Err(err).Msg("Persisted document unreadable, falling back to defaults")
		doc = models.DefaultDocument(keyOverride)
	default:
		doc.Normalize(keyOverride)
	}

	return &Service{
		doc:         doc,
		st:          st,
		keyOverride: keyOverride,
		now:         time.Now,
	}
}

// Resolve returns the effective polling interval for the given client.
// Precedence is a short-circuit chain: user override, then team override,
// then the global interval. Either ID may be empty.
func (s *Service) Resolve(userID, teamID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if userID != "" {
		if ms, ok := s.doc.UserIntervals[userID]; ok {
			return ms
		}
	}
	if teamID != "" {
		if ms, ok := s.doc.TeamIntervals[teamID]; ok {
			return ms
		}
	}
	return s.doc.GlobalIntervalMs
}

// Ingest validates and stores a location report, overwriting any prior
// record for the user. A zero timestamp is filled with the current time.
// Returns the stored record.
func (s *Service) Ingest(ctx context.Context, userID, teamID string, lat, lng float64, timestampMs int64) (models.LocationRecord, error) {
	if userID == "" {
		return models.LocationRecord{}, ErrMissingUserID
	}
	if timestampMs == 0 {
		timestampMs = s.now().UnixMilli()
	}

	rec := models.LocationRecord{
		TeamID:    teamID,
		Lat:       lat,
		Lng:       lng,
		Timestamp: timestampMs,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Locations[userID] = rec
	metrics.LocationsIngested.Inc()
	metrics.TrackedUsers.Set(float64(len(s.doc.Locations)))
	return rec, s.save(ctx)
}

// SnapshotLocations returns a point-in-time copy of all last-known
// locations. No filtering, pagination, or staleness check: a record from
// an hour ago is returned identically to one from a second ago.
func (s *Service) SnapshotLocations() map[string]models.LocationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]models.LocationRecord, len(s.doc.Locations))
	for id, rec := range s.doc.Locations {
		snapshot[id] = rec
	}
	return snapshot
}

// SetGlobalInterval replaces the global polling interval.
func (s *Service) SetGlobalInterval(ctx context.Context, ms int64) error {
	if ms < MinIntervalMs {
		return ErrIntervalTooSmall
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.GlobalIntervalMs = ms
	return s.save(ctx)
}

// SetScopedInterval writes a per-user or per-team interval override,
// replacing any prior value for that ID.
func (s *Service) SetScopedInterval(ctx context.Context, scope, id string, ms int64) error {
	if id == "" {
		return ErrInvalidScope
	}
	if ms < MinIntervalMs {
		return ErrIntervalTooSmall
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch scope {
	case ScopeUser:
		s.doc.UserIntervals[id] = ms
	case ScopeTeam:
		s.doc.TeamIntervals[id] = ms
	default:
		return ErrInvalidScope
	}
	return s.save(ctx)
}

// RotateAPIKey installs newKey as the shared secret, or generates a fresh
// random key when newKey is empty. The key now in effect is returned; for
// a generated key this response is the only way to discover it.
//
// Rotation is the one mutation that rolls back on a failed save: the
// caller never received the new key, so it must not become the required
// secret. The previous key stays authorized and the caller can retry.
//
// When an environment override is configured the persisted key still
// rotates, but the override keeps winning for authorization until it is
// removed.
func (s *Service) RotateAPIKey(ctx context.Context, newKey string) (string, error) {
	if newKey == "" {
		buf := make([]byte, generatedKeyBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("generate api key: %w", err)
		}
		newKey = hex.EncodeToString(buf)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.doc.APIKey
	s.doc.APIKey = newKey
	if err := s.save(ctx); err != nil {
		s.doc.APIKey = prev
		return "", err
	}
	metrics.APIKeyRotations.Inc()
	return newKey, nil
}

// ExpectedAPIKey returns the secret the access guard must match: the
// environment override when configured, otherwise the persisted key.
func (s *Service) ExpectedAPIKey() string {
	if s.keyOverride != "" {
		return s.keyOverride
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.APIKey
}

// SnapshotDocument returns a deep copy of the full document for backup
// snapshotting.
func (s *Service) SnapshotDocument() *models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Ping verifies the store is reachable. Used by the readiness endpoint.
func (s *Service) Ping(ctx context.Context) error {
	if _, err := s.st.Load(ctx); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// save persists the document. Must be called with s.mu held for writing.
// On failure the mutation stays applied in memory; the error is logged
// here and wrapped in ErrSaveFailed for the caller.
func (s *Service) save(ctx context.Context) error {
	start := time.Now()
	err := s.st.Save(ctx, s.doc)
	metrics.RecordDocumentSave(time.Since(start), err)
	if err != nil {
		logging.Error().Err(err).Msg("Document save failed, in-memory state retained")
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}
