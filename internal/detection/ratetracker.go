// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"sync"
	"time"
)

// rateWindow is the trailing duration over which requests count toward the
// per-source limit.
const rateWindow = time.Minute

// RateTracker keeps a time-ordered record of recent request instants per
// source identifier and answers whether a source is over its per-minute
// threshold. Windows are pruned lazily on each check, never proactively, and
// sources are never evicted: state grows with the number of distinct sources
// seen during the process lifetime.
type RateTracker struct {
	mu      sync.Mutex
	limit   int
	history map[string][]time.Time
}

// NewRateTracker creates a tracker that flags sources exceeding limit prior
// requests within the trailing minute.
func NewRateTracker(limit int) *RateTracker {
	return &RateTracker{
		limit:   limit,
		history: make(map[string][]time.Time),
	}
}

// Check records a request from sourceID at instant now and reports whether
// the source was already over threshold. The just-arrived request is always
// recorded but never counts toward its own comparison: with threshold N, the
// Nth request of a burst passes and the (N+1)th trips the limit.
func (rt *RateTracker) Check(sourceID string, now time.Time) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	recent := rt.history[sourceID][:0:0]
	for _, ts := range rt.history[sourceID] {
		if now.Sub(ts) < rateWindow {
			recent = append(recent, ts)
		}
	}

	recentCount := len(recent)
	rt.history[sourceID] = append(recent, now)

	return recentCount > rt.limit
}

// Sources returns the number of distinct source identifiers holding state.
func (rt *RateTracker) Sources() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.history)
}
