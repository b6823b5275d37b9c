// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package models

// API error codes. The mobile client and dashboard treat these as stable.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodePersistence  = "PERSISTENCE_ERROR"
	CodeBackup       = "BACKUP_ERROR"
)

// APIError is the error body carried inside ErrorResponse.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for all error responses. Success responses
// use the flat payload shapes below; the mobile client depends on them.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// IntervalResponse answers the effective-interval query.
type IntervalResponse struct {
	IntervalMs int64 `json:"intervalMs"`
}

// SetGlobalIntervalRequest sets the global polling interval.
// The 10 second floor is enforced by the telemetry service.
type SetGlobalIntervalRequest struct {
	IntervalMs *int64 `json:"intervalMs" validate:"required"`
}

// SetScopedIntervalRequest sets a per-user or per-team interval override.
type SetScopedIntervalRequest struct {
	Scope      string `json:"scope" validate:"required,oneof=user team"`
	ID         string `json:"id" validate:"required"`
	IntervalMs *int64 `json:"intervalMs" validate:"required"`
}

// IngestLocationRequest reports a user's current position. Lat and Lng are
// pointers so a missing field fails validation instead of defaulting to 0,
// which is a valid coordinate.
type IngestLocationRequest struct {
	UserID    string   `json:"userId" validate:"required"`
	TeamID    string   `json:"teamId,omitempty"`
	Lat       *float64 `json:"lat" validate:"required,latitude"`
	Lng       *float64 `json:"lng" validate:"required,longitude"`
	Timestamp int64    `json:"timestamp,omitempty"`
}

// RotateKeyRequest optionally supplies the next shared secret. An empty
// NewKey asks the server to generate one.
type RotateKeyRequest struct {
	NewKey string `json:"newKey,omitempty"`
}

// RotateKeyResponse returns the key now in effect. This is the only path
// for discovering a generated key.
type RotateKeyResponse struct {
	APIKey string `json:"apiKey"`
}

// BackupResponse returns the filename of a created snapshot.
type BackupResponse struct {
	Filename string `json:"filename"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status string `json:"status"`
}
