// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

// Package models defines the persisted document, the location record, and
// the API wire types shared across Fieldtrace packages.
package models

// Default values for a fresh document.
const (
	// DefaultGlobalIntervalMs is the default polling period (5 minutes).
	DefaultGlobalIntervalMs int64 = 300000

	// DefaultAPIKey is the development fallback shared secret, used only
	// when no key is configured and no document exists yet.
	DefaultAPIKey = "dev-key"
)

// LocationRecord is the last-known position of one user. Records are
// overwritten wholesale on each ingest; no history is kept. The user ID is
// the map key in Document.Locations, not part of the record itself, which
// matches the dashboard wire format.
type LocationRecord struct {
	TeamID string  `json:"teamId,omitempty"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`

	// Timestamp is epoch milliseconds; filled with ingest time when the
	// client omits it.
	Timestamp int64 `json:"timestamp"`
}

// Document is the single persisted record owning all configuration and
// location state. Exactly one in-memory copy exists per process; the store
// rewrites it as a whole on every mutation.
type Document struct {
	GlobalIntervalMs int64                     `json:"globalIntervalMs"`
	UserIntervals    map[string]int64          `json:"userIntervals"`
	TeamIntervals    map[string]int64          `json:"teamIntervals"`
	Locations        map[string]LocationRecord `json:"locations"`
	APIKey           string                    `json:"apiKey"`
}

// DefaultDocument returns a fresh document with default configuration.
// fallbackKey seeds the shared secret; when empty the development fallback
// is used.
func DefaultDocument(fallbackKey string) *Document {
	if fallbackKey == "" {
		fallbackKey = DefaultAPIKey
	}
	return &Document{
		GlobalIntervalMs: DefaultGlobalIntervalMs,
		UserIntervals:    make(map[string]int64),
		TeamIntervals:    make(map[string]int64),
		Locations:        make(map[string]LocationRecord),
		APIKey:           fallbackKey,
	}
}

// Normalize fills in zero-valued fields after deserializing a partial or
// legacy document, so callers never see nil maps or a zero interval.
func (d *Document) Normalize(fallbackKey string) {
	if d.GlobalIntervalMs == 0 {
		d.GlobalIntervalMs = DefaultGlobalIntervalMs
	}
	if d.UserIntervals == nil {
		d.UserIntervals = make(map[string]int64)
	}
	if d.TeamIntervals == nil {
		d.TeamIntervals = make(map[string]int64)
	}
	if d.Locations == nil {
		d.Locations = make(map[string]LocationRecord)
	}
	if d.APIKey == "" {
		if fallbackKey == "" {
			fallbackKey = DefaultAPIKey
		}
		d.APIKey = fallbackKey
	}
}

// Clone returns a deep copy of the document. Used for point-in-time reads
// and backup snapshots so callers never alias the live maps.
func (d *Document) Clone() *Document {
	clone := &Document{
		GlobalIntervalMs: d.GlobalIntervalMs,
		UserIntervals:    make(map[string]int64, len(d.UserIntervals)),
		TeamIntervals:    make(map[string]int64, len(d.TeamIntervals)),
		Locations:        make(map[string]LocationRecord, len(d.Locations)),
		APIKey:           d.APIKey,
	}
	for id, ms := range d.UserIntervals {
		clone.UserIntervals[id] = ms
	}
	for id, ms := range d.TeamIntervals {
		clone.TeamIntervals[id] = ms
	}
	for id, rec := range d.Locations {
		clone.Locations[id] = rec
	}
	return clone
}
