// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dewitt4/ai-security-monitor/internal/logging"
	"github.com/dewitt4/ai-security-monitor/internal/metrics"
)

// Config configures a Monitor.
type Config struct {
	// ModelName identifies the model being protected. Used in log records
	// and alert subjects.
	ModelName string

	// MaxRequestsPerMinute is the per-source rate threshold. Required.
	MaxRequestsPerMinute int
}

// Monitor is the façade wiring rate tracking, pattern analysis, incident
// accounting and alert dispatch behind a single detection entry point.
//
// Monitor is safe for concurrent use: the rate-window read-modify-write and
// the incident append happen under one lock so concurrent callers cannot
// interleave between them, and alert dispatch runs outside all locks.
type Monitor struct {
	model     string
	assessor  *ThreatAssessor
	rates     *RateTracker
	incidents *IncidentLog
	alerts    AlertSink

	mu sync.Mutex
}

// NewMonitor validates cfg and builds a monitor. A missing or non-positive
// rate threshold is a configuration error: the monitor must not come up in a
// half-configured state. alerts may be nil, in which case incidents are
// recorded but never escalated.
func NewMonitor(cfg Config, alerts AlertSink) (*Monitor, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if cfg.MaxRequestsPerMinute <= 0 {
		return nil, fmt.Errorf("max_requests_per_minute must be positive, got %d", cfg.MaxRequestsPerMinute)
	}

	rates := NewRateTracker(cfg.MaxRequestsPerMinute)
	return &Monitor{
		model:     cfg.ModelName,
		rates:     rates,
		assessor:  NewThreatAssessor(rates, NewPatternAnalyzer()),
		incidents: NewIncidentLog(),
		alerts:    alerts,
	}, nil
}

// ModelName returns the name of the protected model.
func (m *Monitor) ModelName() string { return m.model }

// DetectThreat analyzes one request and returns its assessment. The only
// error condition is a caller contract violation (missing source identifier
// or input); analysis failures surface as the analysis_error threat label
// and alert transport failures are swallowed by the sink, so a well-formed
// request always yields a well-formed assessment.
//
// When the assessment carries any threat label, an incident is recorded
// before the alert dispatch attempt; a failed dispatch never unwinds the
// record.
func (m *Monitor) DetectThreat(ctx context.Context, req Request) (Assessment, error) {
	if req.SourceID == "" {
		return Assessment{}, ErrMissingSourceID
	}
	if req.Input == nil {
		return Assessment{}, ErrMissingInput
	}

	metrics.RequestsAnalyzed.Inc()

	m.mu.Lock()
	assessment := m.assessor.Assess(req, time.Now())
	var incident *Incident
	if len(assessment.Threats) > 0 {
		rec := Incident{
			ID:        uuid.NewString(),
			Timestamp: assessment.Timestamp,
			Severity:  assessment.Severity,
			Threats:   assessment.Threats,
			SourceID:  req.SourceID,
			Details:   assessment.Details,
		}
		m.incidents.Append(rec)
		incident = &rec
	}
	m.mu.Unlock()

	metrics.TrackedSources.Set(float64(m.rates.Sources()))

	if incident != nil {
		logging.Warn().
			Str("incident_id", incident.ID).
			Str("model", m.model).
			Str("source", incident.SourceID).
			Str("severity", string(incident.Severity)).
			Str("threats", strings.Join(incident.Threats, ",")).
			Msg("security incident detected")

		for _, label := range incident.Threats {
			metrics.ThreatsDetected.WithLabelValues(label).Inc()
		}
		metrics.IncidentsRecorded.WithLabelValues(string(incident.Severity)).Inc()

		if incident.Severity != SeverityLow && m.alerts != nil {
			m.alerts.Notify(ctx, *incident)
		}
	}

	return assessment, nil
}

// IncidentSummary aggregates recorded incidents over the trailing number of
// hours. Non-positive values default to 24.
func (m *Monitor) IncidentSummary(hours int) Summary {
	if hours <= 0 {
		hours = 24
	}
	return m.incidents.Summarize(time.Now(), time.Duration(hours)*time.Hour)
}

// RecentIncidents returns up to limit incidents, newest first.
func (m *Monitor) RecentIncidents(limit int) []Incident {
	return m.incidents.Recent(limit)
}
