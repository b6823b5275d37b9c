// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package services

import (
	"context"
	"time"

	"github.com/fieldtrace/fieldtrace/internal/logging"
)

// BackupCreator matches the backup manager's snapshot entry point.
type BackupCreator interface {
	CreateBackup(ctx context.Context) (string, error)
}

// BackupSchedulerService takes a backup snapshot on a fixed interval.
// A failed snapshot is logged and retried on the next tick rather than
// crashing the service; the on-demand admin endpoint is unaffected
// either way.
type BackupSchedulerService struct {
	manager  BackupCreator
	interval time.Duration
	name     string
}

// NewBackupSchedulerService creates the scheduler. The caller must not
// construct one with a non-positive interval; scheduled backups are
// disabled by not adding the service to the tree.
func NewBackupSchedulerService(manager BackupCreator, interval time.Duration) *BackupSchedulerService {
	return &BackupSchedulerService{
		manager:  manager,
		interval: interval,
		name:     "backup-scheduler",
	}
}

// Serve implements suture.Service.
func (s *BackupSchedulerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logging.Info().Dur("interval", s.interval).Msg("Scheduled backups enabled")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.manager.CreateBackup(ctx); err != nil {
				logging.Error().Err(err).Msg("Scheduled backup failed")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *BackupSchedulerService) String() string {
	return s.name
}
