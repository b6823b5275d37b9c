// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

// Package backup writes timestamped snapshots of the document to a
// backup directory. Snapshots are plain JSON files, restorable by
// copying one over the data file; there is no restore endpoint.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/fieldtrace/fieldtrace/internal/logging"
	"github.com/fieldtrace/fieldtrace/internal/metrics"
	"github.com/fieldtrace/fieldtrace/internal/models"
)

const (
	backupPrefix = "backup-"
	backupSuffix = ".json"
)

// Snapshotter yields a point-in-time copy of the document. The telemetry
// service implements it.
type Snapshotter interface {
	SnapshotDocument() *models.Document
}

// Manager creates backup snapshots and enforces the retention limit.
type Manager struct {
	dir      string
	maxCount int
	source   Snapshotter

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewManager creates a manager writing snapshots of source into dir.
// maxCount <= 0 disables retention pruning.
func NewManager(dir string, maxCount int, source Snapshotter) *Manager {
	return &Manager{
		dir:      dir,
		maxCount: maxCount,
		source:   source,
		now:      time.Now,
	}
}

// CreateBackup snapshots the document into a new timestamped file and
// returns the file name (not the full path). The backup directory is
// created on first use. Filenames embed a UTC timestamp with ':' and
// '.' replaced by '-' so they are safe on every filesystem and sort
// chronologically.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	name, err := m.createBackup(ctx)
	metrics.RecordBackup(err)
	return name, err
}

func (m *Manager) createBackup(_ context.Context) (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory %s: %w", m.dir, err)
	}

	doc := m.source.SnapshotDocument()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}

	stamp := m.now().UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	name := backupPrefix + stamp + backupSuffix

	path := filepath.Join(m.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", path, err)
	}

	logging.Info().Str("file", name).Msg("Backup created")

	if err := m.prune(); err != nil {
		// A failed prune never fails the backup that just succeeded.
		logging.Warn().Err(err).Msg("Backup retention pruning failed")
	}
	return name, nil
}

// prune deletes the oldest backups beyond the retention limit. Filename
// timestamps sort chronologically, so lexical order is age order.
func (m *Manager) prune() error {
	if m.maxCount <= 0 {
		return nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("list backup directory %s: %w", m.dir, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) {
			names = append(names, name)
		}
	}
	if len(names) <= m.maxCount {
		return nil
	}

	sort.Strings(names)
	for _, name := range names[:len(names)-m.maxCount] {
		if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
			return fmt.Errorf("remove expired backup %s: %w", name, err)
		}
		metrics.BackupsPruned.Inc()
		logging.Debug().Str("file", name).Msg("Expired backup removed")
	}
	return nil
}
