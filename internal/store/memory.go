// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package store

import (
	"context"
	"sync"

	"github.com/fieldtrace/fieldtrace/internal/models"
)

// MemoryStore keeps the document in process memory. It exists so the
// telemetry service can be tested without touching disk.
type MemoryStore struct {
	mu    sync.Mutex
	doc   *models.Document
	saves int

	// SaveErr, when set, is returned by every Save call. Tests use this
	// to exercise the persistence-failure policy.
	SaveErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the last saved document.
func (s *MemoryStore) Load(_ context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil, ErrNotFound
	}
	return s.doc.Clone(), nil
}

// Save stores a copy of the document.
func (s *MemoryStore) Save(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.doc = doc.Clone()
	s.saves++
	return nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

// Saves reports how many successful saves happened.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
