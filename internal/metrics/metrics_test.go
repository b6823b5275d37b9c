// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/employee-location", "200"))

	RecordAPIRequest("GET", "/api/employee-location", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/employee-location", "200"))
	if after != before+1 {
		t.Errorf("Counter = %v, want %v", after, before+1)
	}
}

func TestRecordDocumentSave(t *testing.T) {
	successBefore := testutil.ToFloat64(DocumentSaves.WithLabelValues("success"))
	failureBefore := testutil.ToFloat64(DocumentSaves.WithLabelValues("failure"))

	RecordDocumentSave(time.Millisecond, nil)
	RecordDocumentSave(time.Millisecond, errors.New("disk full"))

	if got := testutil.ToFloat64(DocumentSaves.WithLabelValues("success")); got != successBefore+1 {
		t.Errorf("success counter = %v, want %v", got, successBefore+1)
	}
	if got := testutil.ToFloat64(DocumentSaves.WithLabelValues("failure")); got != failureBefore+1 {
		t.Errorf("failure counter = %v, want %v", got, failureBefore+1)
	}
}

func TestRecordBackup(t *testing.T) {
	before := testutil.ToFloat64(BackupsCreated.WithLabelValues("failure"))

	RecordBackup(errors.New("mkdir denied"))

	if got := testutil.ToFloat64(BackupsCreated.WithLabelValues("failure")); got != before+1 {
		t.Errorf("failure counter = %v, want %v", got, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	base := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != base+1 {
		t.Errorf("gauge after inc = %v, want %v", got, base+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != base {
		t.Errorf("gauge after dec = %v, want %v", got, base)
	}
}
