// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

// Package api exposes the service over HTTP. Success payloads are the
// flat JSON shapes the mobile client was built against; errors use a
// small envelope with stable codes.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/fieldtrace/fieldtrace/internal/logging"
	"github.com/fieldtrace/fieldtrace/internal/models"
	"github.com/fieldtrace/fieldtrace/internal/telemetry"
)

// BackupManager matches the backup manager's on-demand entry point.
type BackupManager interface {
	CreateBackup(ctx context.Context) (string, error)
}

// Handler carries the dependencies of all HTTP handlers.
type Handler struct {
	svc     *telemetry.Service
	backups BackupManager
}

// NewHandler creates the handler set.
func NewHandler(svc *telemetry.Service, backups BackupManager) *Handler {
	return &Handler{
		svc:     svc,
		backups: backups,
	}
}

// GetInterval answers the effective polling interval for the calling
// client. userId and teamId arrive as query parameters and both are
// optional; an anonymous query gets the global interval.
func (h *Handler) GetInterval(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	teamID := r.URL.Query().Get("teamId")

	respondJSON(w, http.StatusOK, &models.IntervalResponse{
		IntervalMs: h.svc.Resolve(userID, teamID),
	})
}

// SetGlobalInterval replaces the global polling interval.
func (h *Handler) SetGlobalInterval(w http.ResponseWriter, r *http.Request) {
	var req models.SetGlobalIntervalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "Invalid interval", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := h.svc.SetGlobalInterval(r.Context(), *req.IntervalMs); err != nil {
		h.respondMutationError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("interval_ms", *req.IntervalMs).Msg("Global interval updated")
	w.WriteHeader(http.StatusOK)
}

// SetScopedInterval writes a per-user or per-team interval override.
func (h *Handler) SetScopedInterval(w http.ResponseWriter, r *http.Request) {
	var req models.SetScopedIntervalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "Invalid settings", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if err := h.svc.SetScopedInterval(r.Context(), req.Scope, req.ID, *req.IntervalMs); err != nil {
		h.respondMutationError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("scope", sanitizeLogValue(req.Scope)).
		Str("id", sanitizeLogValue(req.ID)).
		Int64("interval_ms", *req.IntervalMs).
		Msg("Scoped interval updated")
	w.WriteHeader(http.StatusOK)
}

// IngestLocation accepts a location report and overwrites the user's
// last-known position.
func (h *Handler) IngestLocation(w http.ResponseWriter, r *http.Request) {
	var req models.IngestLocationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "Invalid location payload", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if _, err := h.svc.Ingest(r.Context(), req.UserID, req.TeamID, *req.Lat, *req.Lng, req.Timestamp); err != nil {
		h.respondMutationError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Locations returns every user's last-known position as a map keyed by
// user ID.
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.SnapshotLocations())
}

// RotateKey installs or generates a new API key. The response is the
// only channel carrying a generated key, so clients must capture it.
// An empty body is a valid request and means "generate one for me".
func (h *Handler) RotateKey(w http.ResponseWriter, r *http.Request) {
	var req models.RotateKeyRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "Invalid key payload", err)
		return
	}

	key, err := h.svc.RotateAPIKey(r.Context(), req.NewKey)
	if err != nil {
		h.respondMutationError(w, err)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("API key rotated")
	respondJSON(w, http.StatusOK, &models.RotateKeyResponse{APIKey: key})
}

// CreateBackup writes a timestamped snapshot of the document and returns
// its filename.
func (h *Handler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	filename, err := h.backups.CreateBackup(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, models.CodeBackup, "Backup failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.BackupResponse{Filename: filename})
}

// Health reports overall service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, &models.HealthResponse{Status: "unhealthy"})
		return
	}
	respondJSON(w, http.StatusOK, &models.HealthResponse{Status: "healthy"})
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.HealthResponse{Status: "alive"})
}

// HealthReady is the readiness probe: the store answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, &models.HealthResponse{Status: "not ready"})
		return
	}
	respondJSON(w, http.StatusOK, &models.HealthResponse{Status: "ready"})
}

// respondMutationError maps telemetry service errors onto the error
// taxonomy: invalid input 400, persistence failure 500.
func (h *Handler) respondMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, telemetry.ErrIntervalTooSmall),
		errors.Is(err, telemetry.ErrInvalidScope),
		errors.Is(err, telemetry.ErrMissingUserID):
		respondError(w, http.StatusBadRequest, models.CodeValidation, err.Error(), nil)
	case errors.Is(err, telemetry.ErrSaveFailed):
		respondError(w, http.StatusInternalServerError, models.CodePersistence, "Failed to persist changes", err)
	default:
		respondError(w, http.StatusInternalServerError, models.CodePersistence, "Internal error", err)
	}
}
