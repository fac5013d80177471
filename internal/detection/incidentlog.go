// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"sort"
	"sync"
	"time"
)

// IncidentLog is the append-only in-memory record of security incidents.
// Incidents are stored in append order and never removed; summary queries
// filter by time but nothing is ever purged. Unbounded growth over the
// process lifetime is a documented property of this design.
type IncidentLog struct {
	mu        sync.RWMutex
	incidents []Incident
}

// NewIncidentLog creates an empty incident log.
func NewIncidentLog() *IncidentLog {
	return &IncidentLog{}
}

// Append records an incident. Callers append only assessments that carried
// at least one threat label.
func (l *IncidentLog) Append(incident Incident) {
	l.mu.Lock()
	l.incidents = append(l.incidents, incident)
	l.mu.Unlock()
}

// Len returns the total number of recorded incidents.
func (l *IncidentLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.incidents)
}

// Recent returns up to limit incidents in reverse append order (newest
// first). A non-positive limit returns all incidents.
func (l *IncidentLog) Recent(limit int) []Incident {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.incidents)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Incident, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.incidents[i])
	}
	return out
}

// Summarize aggregates the incidents recorded strictly after now-window:
// total count, counts per severity bucket (all three buckets always
// present), distinct source count, and per-label occurrence counts sorted
// descending by count with ties broken by label.
func (l *IncidentLog) Summarize(now time.Time, window time.Duration) Summary {
	cutoff := now.Add(-window)

	summary := Summary{
		BySeverity: map[Severity]int{
			SeverityLow:    0,
			SeverityMedium: 0,
			SeverityHigh:   0,
		},
		MostCommonThreats: []ThreatCount{},
	}

	sources := make(map[string]struct{})
	labelCounts := make(map[string]int)

	l.mu.RLock()
	for _, incident := range l.incidents {
		if !incident.Timestamp.After(cutoff) {
			continue
		}
		summary.TotalIncidents++
		summary.BySeverity[incident.Severity]++
		sources[incident.SourceID] = struct{}{}
		for _, label := range incident.Threats {
			labelCounts[label]++
		}
	}
	l.mu.RUnlock()

	summary.UniqueSources = len(sources)

	for label, count := range labelCounts {
		summary.MostCommonThreats = append(summary.MostCommonThreats, ThreatCount{Label: label, Count: count})
	}
	sort.Slice(summary.MostCommonThreats, func(i, j int) bool {
		a, b := summary.MostCommonThreats[i], summary.MostCommonThreats[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Label < b.Label
	})

	return summary
}
