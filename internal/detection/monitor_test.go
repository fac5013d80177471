// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// recordingSink captures every incident handed to Notify.
type recordingSink struct {
	mu        sync.Mutex
	incidents []Incident
	fail      bool
}

func (s *recordingSink) Notify(_ context.Context, incident Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incidents = append(s.incidents, incident)
	if s.fail {
		// A real sink swallows transport errors; nothing propagates.
		return
	}
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.incidents)
}

func (s *recordingSink) last() Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incidents[len(s.incidents)-1]
}

func newTestMonitor(t *testing.T, limit int, sink AlertSink) *Monitor {
	t.Helper()
	monitor, err := NewMonitor(Config{ModelName: "test-model", MaxRequestsPerMinute: limit}, sink)
	if err != nil {
		t.Fatalf("NewMonitor: %v", err)
	}
	return monitor
}

func TestNewMonitor_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing model name", cfg: Config{MaxRequestsPerMinute: 10}},
		{name: "zero rate threshold", cfg: Config{ModelName: "m"}},
		{name: "negative rate threshold", cfg: Config{ModelName: "m", MaxRequestsPerMinute: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMonitor(tt.cfg, nil); err == nil {
				t.Error("expected configuration error, got nil")
			}
		})
	}
}

func TestDetectThreat_ContractViolations(t *testing.T) {
	monitor := newTestMonitor(t, 100, nil)
	ctx := context.Background()

	if _, err := monitor.DetectThreat(ctx, Request{Input: []any{1.0}}); !errors.Is(err, ErrMissingSourceID) {
		t.Errorf("missing source: err = %v, want ErrMissingSourceID", err)
	}
	if _, err := monitor.DetectThreat(ctx, Request{SourceID: "1.2.3.4"}); !errors.Is(err, ErrMissingInput) {
		t.Errorf("missing input: err = %v, want ErrMissingInput", err)
	}

	// Contract violations leave no trace in the incident log.
	if got := monitor.IncidentSummary(24).TotalIncidents; got != 0 {
		t.Errorf("TotalIncidents = %d, want 0", got)
	}
}

func TestDetectThreat_CleanRequestRecordsNothing(t *testing.T) {
	sink := &recordingSink{}
	monitor := newTestMonitor(t, 100, sink)

	assessment, err := monitor.DetectThreat(context.Background(), Request{
		SourceID: "1.2.3.4",
		Input:    []any{1.0, 2.0, 3.0},
	})
	if err != nil {
		t.Fatalf("DetectThreat: %v", err)
	}
	if assessment.Severity != SeverityLow {
		t.Errorf("Severity = %v, want low", assessment.Severity)
	}
	if got := monitor.IncidentSummary(24).TotalIncidents; got != 0 {
		t.Errorf("clean request recorded an incident: TotalIncidents = %d", got)
	}
	if sink.count() != 0 {
		t.Errorf("clean request dispatched %d alerts", sink.count())
	}
}

func TestDetectThreat_HighSeverityAlerts(t *testing.T) {
	sink := &recordingSink{}
	monitor := newTestMonitor(t, 100, sink)

	assessment, err := monitor.DetectThreat(context.Background(), Request{
		SourceID: "1.2.3.4",
		Input:    []any{3_000_000.0},
	})
	if err != nil {
		t.Fatalf("DetectThreat: %v", err)
	}
	if assessment.Severity != SeverityHigh {
		t.Fatalf("Severity = %v, want high", assessment.Severity)
	}

	summary := monitor.IncidentSummary(24)
	if summary.TotalIncidents != 1 {
		t.Errorf("TotalIncidents = %d, want 1", summary.TotalIncidents)
	}
	if sink.count() != 1 {
		t.Fatalf("alert count = %d, want 1", sink.count())
	}

	incident := sink.last()
	if incident.ID == "" {
		t.Error("incident ID must be assigned before dispatch")
	}
	if incident.SourceID != "1.2.3.4" {
		t.Errorf("SourceID = %s, want 1.2.3.4", incident.SourceID)
	}
	if !containsLabel(incident.Threats, LabelExtremeValues) {
		t.Errorf("Threats = %v, want %s", incident.Threats, LabelExtremeValues)
	}
}

func TestDetectThreat_MediumSeverityAlerts(t *testing.T) {
	sink := &recordingSink{}
	monitor := newTestMonitor(t, 1, sink)
	ctx := context.Background()
	req := Request{SourceID: "1.2.3.4", Input: []any{1.0, 2.0}}

	monitor.DetectThreat(ctx, req)
	monitor.DetectThreat(ctx, req)
	assessment, err := monitor.DetectThreat(ctx, req)
	if err != nil {
		t.Fatalf("DetectThreat: %v", err)
	}
	if assessment.Severity != SeverityMedium {
		t.Fatalf("Severity = %v, want medium", assessment.Severity)
	}
	if sink.count() != 1 {
		t.Errorf("alert count = %d, want 1: medium severity escalates", sink.count())
	}
}

func TestDetectThreat_NilSink(t *testing.T) {
	monitor := newTestMonitor(t, 100, nil)

	// Escalation is optional; a nil sink must not panic.
	_, err := monitor.DetectThreat(context.Background(), Request{
		SourceID: "1.2.3.4",
		Input:    []any{3_000_000.0},
	})
	if err != nil {
		t.Fatalf("DetectThreat: %v", err)
	}
	if got := monitor.IncidentSummary(24).TotalIncidents; got != 1 {
		t.Errorf("TotalIncidents = %d, want 1: recording is independent of dispatch", got)
	}
}

func TestDetectThreat_SinkFailureDoesNotUnwind(t *testing.T) {
	sink := &recordingSink{fail: true}
	monitor := newTestMonitor(t, 100, sink)

	assessment, err := monitor.DetectThreat(context.Background(), Request{
		SourceID: "1.2.3.4",
		Input:    []any{3_000_000.0},
	})
	if err != nil {
		t.Fatalf("DetectThreat must not surface sink failures: %v", err)
	}
	if assessment.Severity != SeverityHigh {
		t.Errorf("Severity = %v, want high", assessment.Severity)
	}
	if got := monitor.IncidentSummary(24).TotalIncidents; got != 1 {
		t.Errorf("TotalIncidents = %d, want 1: incident persists despite failed dispatch", got)
	}
}

func TestDetectThreat_AnalysisErrorRecorded(t *testing.T) {
	sink := &recordingSink{}
	monitor := newTestMonitor(t, 100, sink)

	assessment, err := monitor.DetectThreat(context.Background(), Request{
		SourceID: "1.2.3.4",
		Input:    []any{"not", "numeric"},
	})
	if err != nil {
		t.Fatalf("analysis failure must not be an error return: %v", err)
	}
	if !containsLabel(assessment.Threats, LabelAnalysisError) {
		t.Errorf("Threats = %v, want %s", assessment.Threats, LabelAnalysisError)
	}
	if assessment.Severity != SeverityHigh {
		t.Errorf("Severity = %v, want high", assessment.Severity)
	}
	if sink.count() != 1 {
		t.Errorf("alert count = %d, want 1", sink.count())
	}
}

func TestMonitor_RecentIncidents(t *testing.T) {
	monitor := newTestMonitor(t, 100, nil)
	ctx := context.Background()

	for _, source := range []string{"a", "b", "c"} {
		monitor.DetectThreat(ctx, Request{SourceID: source, Input: []any{3_000_000.0}})
	}

	recent := monitor.RecentIncidents(2)
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].SourceID != "c" || recent[1].SourceID != "b" {
		t.Errorf("order = [%s %s], want newest first [c b]", recent[0].SourceID, recent[1].SourceID)
	}
}

func TestMonitor_SummaryDefaultsWindow(t *testing.T) {
	monitor := newTestMonitor(t, 100, nil)
	monitor.DetectThreat(context.Background(), Request{SourceID: "a", Input: []any{3_000_000.0}})

	for _, hours := range []int{0, -5} {
		summary := monitor.IncidentSummary(hours)
		if summary.TotalIncidents != 1 {
			t.Errorf("hours=%d: TotalIncidents = %d, want 1 (default 24h window)", hours, summary.TotalIncidents)
		}
	}
}

func TestMonitor_ConcurrentDetect(t *testing.T) {
	sink := &recordingSink{}
	monitor := newTestMonitor(t, 1, sink)
	ctx := context.Background()

	var wg sync.WaitGroup
	const workers = 16
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			monitor.DetectThreat(ctx, Request{SourceID: "burst", Input: []any{1.0, 2.0}})
		}()
	}
	wg.Wait()

	// The first two requests see at most one prior; every later request
	// sees more than the threshold. The atomicity of check-then-record
	// guarantees exactly workers-2 incidents.
	summary := monitor.IncidentSummary(1)
	if summary.TotalIncidents != workers-2 {
		t.Errorf("TotalIncidents = %d, want %d", summary.TotalIncidents, workers-2)
	}
	if summary.BySeverity[SeverityMedium] != workers-2 {
		t.Errorf("BySeverity[medium] = %d, want %d", summary.BySeverity[SeverityMedium], workers-2)
	}
}
