// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package validation

import (
	"strings"
	"testing"

	"github.com/fieldtrace/fieldtrace/internal/models"
)

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }

func TestValidateStruct_IngestLocationRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       models.IngestLocationRequest
		wantField string
	}{
		{
			name: "valid request",
			req: models.IngestLocationRequest{
				UserID: "u1",
				Lat:    float64Ptr(51.5),
				Lng:    float64Ptr(-0.12),
			},
		},
		{
			name: "boundary coordinates valid",
			req: models.IngestLocationRequest{
				UserID: "u1",
				Lat:    float64Ptr(-90),
				Lng:    float64Ptr(180),
			},
		},
		{
			name: "missing user id",
			req: models.IngestLocationRequest{
				Lat: float64Ptr(1),
				Lng: float64Ptr(2),
			},
			wantField: "UserID",
		},
		{
			name: "missing lat",
			req: models.IngestLocationRequest{
				UserID: "u1",
				Lng:    float64Ptr(2),
			},
			wantField: "Lat",
		},
		{
			name: "latitude out of range",
			req: models.IngestLocationRequest{
				UserID: "u1",
				Lat:    float64Ptr(90.5),
				Lng:    float64Ptr(2),
			},
			wantField: "Lat",
		},
		{
			name: "longitude out of range",
			req: models.IngestLocationRequest{
				UserID: "u1",
				Lat:    float64Ptr(1),
				Lng:    float64Ptr(-180.5),
			},
			wantField: "Lng",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected validation failure")
			}
			found := false
			for _, f := range err.Fields() {
				if f.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected failure on %s, got %v", tt.wantField, err.Fields())
			}
		})
	}
}

func TestValidateStruct_ScopeEnum(t *testing.T) {
	tests := []struct {
		scope string
		valid bool
	}{
		{"user", true},
		{"team", true},
		{"org", false},
		{"User", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("scope "+tt.scope, func(t *testing.T) {
			req := models.SetScopedIntervalRequest{
				Scope:      tt.scope,
				ID:         "x1",
				IntervalMs: int64Ptr(20000),
			}
			err := ValidateStruct(&req)
			if tt.valid && err != nil {
				t.Errorf("Expected scope %q valid, got %v", tt.scope, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Expected scope %q rejected", tt.scope)
			}
		})
	}
}

func TestValidateStruct_ErrorMessages(t *testing.T) {
	req := models.IngestLocationRequest{
		Lat: float64Ptr(100),
		Lng: float64Ptr(2),
	}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("Expected validation failure")
	}

	msg := err.Error()
	if !strings.Contains(msg, "UserID is required") {
		t.Errorf("Expected required message, got %q", msg)
	}
	if !strings.Contains(msg, "valid latitude") {
		t.Errorf("Expected latitude range message, got %q", msg)
	}
}

func TestValidateStruct_MultipleFailuresJoined(t *testing.T) {
	req := models.SetScopedIntervalRequest{}
	err := ValidateStruct(&req)
	if err == nil {
		t.Fatal("Expected validation failure")
	}
	if len(err.Fields()) < 3 {
		t.Errorf("Expected failures for all fields, got %v", err.Fields())
	}
	if !strings.Contains(err.Error(), ";") {
		t.Errorf("Expected joined messages, got %q", err.Error())
	}
}
