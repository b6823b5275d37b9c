// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

// Package store persists the Fieldtrace document. The document is written
// as a whole on every mutation; the store is the sole source of truth
// across restarts.
//
// Three backends implement the Store interface:
//
//   - FileStore: a single JSON document on disk, written atomically
//     (temp file + rename). The production default.
//   - BadgerStore: the document under one key in a BadgerDB database,
//     for deployments wanting crash-safe LSM storage.
//   - MemoryStore: in-process only, for tests.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldtrace/fieldtrace/internal/models"
)

// ErrNotFound is returned by Load when no document has been saved yet.
// Callers fall back to a default document.
var ErrNotFound = errors.New("store: document not found")

// Store loads and saves the persisted document.
type Store interface {
	// Load returns the last saved document, ErrNotFound if none exists,
	// or an error if the saved document cannot be read or decoded.
	Load(ctx context.Context) (*models.Document, error)

	// Save durably overwrites the prior document.
	Save(ctx context.Context, doc *models.Document) error

	// Close releases backend resources.
	Close() error
}

// New creates a store for the configured backend.
func New(backend, path string) (Store, error) {
	switch backend {
	case "file":
		return NewFileStore(path), nil
	case "badger":
		return NewBadgerStore(path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
