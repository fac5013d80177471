// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"context"
	"errors"
	"time"
)

// Severity classifies how serious an assessment is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// rank orders severities for monotone raising. Unknown values rank below low.
func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// Raise returns the higher of s and other. A later detection rule may only
// increase severity within one assessment, never decrease it.
func (s Severity) Raise(other Severity) Severity {
	if other.rank() > s.rank() {
		return other
	}
	return s
}

// Threat labels identify which heuristic fired.
const (
	LabelRateLimitExceeded  = "rate_limit_exceeded"
	LabelExtremeValues      = "extreme_values"
	LabelSuspiciousSparsity = "suspicious_sparsity"
	LabelAdversarialPattern = "potential_adversarial_pattern"
	LabelAnalysisError      = "analysis_error"
)

// Contract violations surfaced to the caller of DetectThreat. These are the
// only errors the detection path ever returns; analysis and transport
// failures are recovered internally.
var (
	ErrMissingSourceID = errors.New("request has no source identifier")
	ErrMissingInput    = errors.New("request has no input data")
)

// Request is one inference request record under inspection. It is
// constructed by the caller per request and not retained by the monitor.
type Request struct {
	// SourceID buckets rate-limit state, typically the caller network
	// address.
	SourceID string `json:"source_id"`

	// Input is the raw input tensor as decoded from the request payload:
	// a number or arbitrarily nested slices of numbers.
	Input any `json:"input"`
}

// Details is the typed diagnostic payload attached to an assessment, keyed
// by the originating check.
type Details struct {
	// Patterns carries the pattern-analysis report when any pattern
	// heuristic fired.
	Patterns *PatternReport `json:"patterns,omitempty"`
}

// Assessment is the outcome of one DetectThreat call.
type Assessment struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Threats   []string  `json:"threats_detected"`
	Details   Details   `json:"details"`
}

// Incident is a persisted record of an assessment that carried at least one
// threat label. Immutable once created; incidents live for the process
// lifetime and are never evicted.
type Incident struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Threats   []string  `json:"threats"`
	SourceID  string    `json:"source_id"`
	Details   Details   `json:"details"`
}

// ThreatCount pairs a threat label with its occurrence count inside a
// summary window.
type ThreatCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary aggregates incidents over a trailing time window.
type Summary struct {
	TotalIncidents int `json:"total_incidents"`

	// BySeverity always contains all three buckets, zero or not.
	BySeverity map[Severity]int `json:"by_severity"`

	UniqueSources int `json:"unique_sources"`

	// MostCommonThreats is sorted descending by count; ties are broken by
	// label so the order is deterministic.
	MostCommonThreats []ThreatCount `json:"most_common_threats"`
}

// AlertSink receives incidents whose severity warrants escalation. Delivery
// is best-effort: implementations must never propagate transport failures.
type AlertSink interface {
	Notify(ctx context.Context, incident Incident)
}
