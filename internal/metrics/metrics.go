// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

// Package metrics defines the Prometheus instrumentation for the monitor:
// detection throughput, incidents by severity and threat label, alert
// delivery outcomes, and rate-tracker cardinality.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsAnalyzed counts every request that passed through threat
	// detection, clean or not.
	RequestsAnalyzed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "monitor_requests_analyzed_total",
			Help: "Total number of inference requests analyzed",
		},
	)

	// ThreatsDetected counts triggered heuristics by threat label.
	ThreatsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_threats_detected_total",
			Help: "Total number of threat labels triggered",
		},
		[]string{"label"},
	)

	// IncidentsRecorded counts incidents appended to the in-memory log.
	IncidentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_incidents_recorded_total",
			Help: "Total number of security incidents recorded",
		},
		[]string{"severity"},
	)

	// AnalysisErrors counts pattern-analysis passes that could not coerce
	// their input.
	AnalysisErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "monitor_analysis_errors_total",
			Help: "Total number of pattern analysis failures",
		},
	)

	// TrackedSources reports how many source identifiers currently hold
	// rate-window state. The windows are never evicted, so this gauge only
	// grows within a process lifetime.
	TrackedSources = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monitor_rate_tracked_sources",
			Help: "Number of source identifiers with rate-limit state",
		},
	)

	// AlertsSent counts successful alert deliveries by notifier.
	AlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_alerts_sent_total",
			Help: "Total number of alerts delivered",
		},
		[]string{"notifier"},
	)

	// AlertFailures counts failed alert deliveries by notifier. Failures are
	// swallowed by the dispatcher, so this counter and the log stream are the
	// only places they surface.
	AlertFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_alert_failures_total",
			Help: "Total number of failed alert deliveries",
		},
		[]string{"notifier"},
	)

	// AlertSendDuration observes wall-clock alert delivery time.
	AlertSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitor_alert_send_duration_seconds",
			Help:    "Alert delivery duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"notifier"},
	)

	// SMTPBreakerState reports the alert circuit breaker state
	// (0 = closed, 1 = half-open, 2 = open).
	SMTPBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "monitor_smtp_breaker_state",
			Help: "SMTP circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// APIRequestsTotal counts HTTP API requests.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration observes HTTP API request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitor_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)
)
