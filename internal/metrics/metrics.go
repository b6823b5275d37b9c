// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the service. Exposed on /metrics.
// Covers:
// - API endpoint latency and throughput
// - Location ingest volume
// - Document persistence outcomes
// - Backup snapshot outcomes
// - Auth and rate limit rejections

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	APIAuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_auth_failures_total",
			Help: "Total number of rejected API key presentations",
		},
	)

	// Ingest Metrics
	LocationsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "locations_ingested_total",
			Help: "Total number of location reports accepted",
		},
	)

	TrackedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracked_users",
			Help: "Current number of users with a stored location",
		},
	)

	// Persistence Metrics
	DocumentSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_saves_total",
			Help: "Total number of document save attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	DocumentSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_save_duration_seconds",
			Help:    "Duration of document saves in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Backup Metrics
	BackupsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backups_created_total",
			Help: "Total number of backup snapshot attempts",
		},
		[]string{"result"}, // "success", "failure"
	)

	BackupsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backups_pruned_total",
			Help: "Total number of backup files removed by retention",
		},
	)

	APIKeyRotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_key_rotations_total",
			Help: "Total number of API key rotations",
		},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDocumentSave records one save attempt and its outcome.
func RecordDocumentSave(duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	DocumentSaves.WithLabelValues(result).Inc()
	DocumentSaveDuration.Observe(duration.Seconds())
}

// RecordBackup records one backup attempt and its outcome.
func RecordBackup(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	BackupsCreated.WithLabelValues(result).Inc()
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
