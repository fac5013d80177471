// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the HTTP-layer settings.
type RouterConfig struct {
	// RateLimitRequests and RateLimitWindow bound reporting-endpoint
	// traffic per client IP. The detect endpoint is exempt: its abuse
	// control is the threat detection itself.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DefaultRouterConfig returns the default HTTP-layer settings.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// NewRouter builds the HTTP routing tree.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	if cfg.RateLimitRequests <= 0 {
		cfg = DefaultRouterConfig()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogging())
	r.Use(SecurityHeaders())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/detect", handler.Detect)

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
			r.Get("/summary", handler.Summary)
			r.Get("/incidents", handler.Incidents)
		})
	})

	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
