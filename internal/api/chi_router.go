// Fieldtrace - Location Telemetry Ingestion and Presence Service
// Copyright 2026 The Fieldtrace Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldtrace/fieldtrace

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fieldtrace/fieldtrace/internal/auth"
	"github.com/fieldtrace/fieldtrace/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so it can be used with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers, middleware, and the access guard into the HTTP
// surface.
type Router struct {
	handler *Handler
	guard   *auth.Guard
	chimw   *ChiMiddleware
}

// NewRouter creates a router.
func NewRouter(handler *Handler, guard *auth.Guard, chimw *ChiMiddleware) *Router {
	if chimw == nil {
		chimw = NewChiMiddleware(nil)
	}
	return &Router{
		handler: handler,
		guard:   guard,
		chimw:   chimw,
	}
}

// Setup builds the full route tree.
//
// Reads of the effective interval and last-known locations are public;
// every mutation sits behind the API key. Admin endpoints additionally
// get a stricter rate limit.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chimw.CORS())

	// Health endpoints, permissively rate limited for monitors.
	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chimw.RateLimitHealth())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Public reads. The mobile client polls the interval endpoint before
	// it has any credential, and the dashboard map reads locations.
	r.Group(func(r chi.Router) {
		r.Use(router.chimw.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Get("/api/location-update-interval", router.handler.GetInterval)
		r.Get("/api/employee-location", router.handler.Locations)
	})

	// Key-gated mutations.
	r.Group(func(r chi.Router) {
		r.Use(router.chimw.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(RequireAPIKey(router.guard))
		r.Post("/api/location-update-interval", router.handler.SetGlobalInterval)
		r.Post("/api/settings", router.handler.SetScopedInterval)
		r.Post("/api/location", router.handler.IngestLocation)
	})

	// Admin operations: key-gated plus a strict rate limit.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(router.chimw.RateLimitAdmin())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(RequireAPIKey(router.guard))
		r.Post("/api-key", router.handler.RotateKey)
		r.Post("/backup", router.handler.CreateBackup)
	})

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
