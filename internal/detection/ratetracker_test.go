// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"testing"
	"time"
)

func TestRateTracker_OffByOne(t *testing.T) {
	const limit = 5
	tracker := NewRateTracker(limit)
	base := time.Now()

	// The just-arrived request never counts toward its own comparison, so
	// requests 1..limit+1 all pass: request N compares against N-1 priors.
	for i := 0; i <= limit; i++ {
		now := base.Add(time.Duration(i) * time.Second)
		if tracker.Check("10.0.0.1", now) {
			t.Fatalf("request %d should not trip limit %d", i+1, limit)
		}
	}

	// Request limit+2 sees limit+1 surviving priors.
	if !tracker.Check("10.0.0.1", base.Add(10*time.Second)) {
		t.Errorf("request %d should trip limit %d", limit+2, limit)
	}
}

func TestRateTracker_WindowExpiry(t *testing.T) {
	tracker := NewRateTracker(2)
	base := time.Now()

	for i := 0; i < 10; i++ {
		tracker.Check("10.0.0.1", base.Add(time.Duration(i)*time.Millisecond))
	}

	// More than 60 seconds later the burst has expired; the check sees zero
	// surviving priors.
	if tracker.Check("10.0.0.1", base.Add(61*time.Second)) {
		t.Error("expired burst entries must not count toward the threshold")
	}
}

func TestRateTracker_ExactWindowBoundary(t *testing.T) {
	tracker := NewRateTracker(0)
	base := time.Now()

	tracker.Check("10.0.0.1", base)

	// An entry aged exactly 60s is outside the strict window.
	if tracker.Check("10.0.0.1", base.Add(time.Minute)) {
		t.Error("entry aged exactly one minute must be discarded")
	}

	// An entry aged just under 60s survives, tripping a zero threshold.
	tracker = NewRateTracker(0)
	tracker.Check("10.0.0.2", base)
	if !tracker.Check("10.0.0.2", base.Add(time.Minute-time.Millisecond)) {
		t.Error("entry aged under one minute must count")
	}
}

func TestRateTracker_IndependentSources(t *testing.T) {
	tracker := NewRateTracker(1)
	base := time.Now()

	tracker.Check("a", base)
	tracker.Check("a", base.Add(time.Second))
	if !tracker.Check("a", base.Add(2*time.Second)) {
		t.Error("source a should be over threshold")
	}
	if tracker.Check("b", base.Add(2*time.Second)) {
		t.Error("source b has no history and must not trip")
	}

	if got := tracker.Sources(); got != 2 {
		t.Errorf("Sources() = %d, want 2", got)
	}
}

func TestRateTracker_LazyPruning(t *testing.T) {
	tracker := NewRateTracker(100)
	base := time.Now()

	tracker.Check("a", base)
	tracker.Check("a", base.Add(time.Second))
	tracker.Check("a", base.Add(2*time.Minute))

	// After the last check the stored window holds only the surviving
	// instant plus the just-observed one.
	if got := len(tracker.history["a"]); got != 1 {
		t.Errorf("window length = %d, want 1 after pruning", got)
	}
}
