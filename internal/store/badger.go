// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/fieldtrace/fieldtrace/internal/models"
)

// documentKey is the single key the document lives under.
const documentKey = "fieldtrace:document"

// BadgerStore keeps the document in a BadgerDB database. The document is
// still one value replaced as a whole; Badger contributes crash-safe
// storage without the rename dance of the file backend.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a BadgerDB database at dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// Load reads the document value.
func (s *BadgerStore) Load(_ context.Context) (*models.Document, error) {
	doc := &models.Document{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(documentKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get document: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, doc)
		})
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save replaces the document value.
func (s *BadgerStore) Save(_ context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(documentKey), data)
	})
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
