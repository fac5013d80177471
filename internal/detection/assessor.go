// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import "time"

// ThreatAssessor combines the rate tracker and the pattern analyzer into one
// assessment per request. Apart from the rate-window update its Assess
// triggers, it holds no state of its own.
type ThreatAssessor struct {
	rates    *RateTracker
	patterns *PatternAnalyzer
}

// NewThreatAssessor creates an assessor over the given rate tracker and
// pattern analyzer.
func NewThreatAssessor(rates *RateTracker, patterns *PatternAnalyzer) *ThreatAssessor {
	return &ThreatAssessor{rates: rates, patterns: patterns}
}

// Assess evaluates one request at instant now. Severity starts low and is
// only ever raised: a rate violation lifts it to medium, any pattern anomaly
// to high. Pattern labels are appended after the rate label, preserving
// detection order, and the full pattern report is attached under
// Details.Patterns whenever a pattern heuristic fired.
func (ta *ThreatAssessor) Assess(req Request, now time.Time) Assessment {
	assessment := Assessment{
		Timestamp: now,
		Severity:  SeverityLow,
	}

	if ta.rates.Check(req.SourceID, now) {
		assessment.Threats = append(assessment.Threats, LabelRateLimitExceeded)
		assessment.Severity = assessment.Severity.Raise(SeverityMedium)
	}

	report := ta.patterns.Analyze(req.Input)
	if len(report.Labels) > 0 {
		assessment.Threats = append(assessment.Threats, report.Labels...)
		assessment.Severity = assessment.Severity.Raise(SeverityHigh)
		assessment.Details.Patterns = &report
	}

	return assessment
}
