// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"math"

	"github.com/dewitt4/ai-security-monitor/internal/logging"
	"github.com/dewitt4/ai-security-monitor/internal/metrics"
)

// Heuristic thresholds. The alert settings declare suspicious_pattern_threshold
// and failed_attempts_threshold, but no current check reads them; these
// literals are the documented defaults.
const (
	// extremeValueLimit is the absolute value above which an element counts
	// as extreme.
	extremeValueLimit = 1e6

	// sparsityFloor is the nonzero fraction below which an input counts as
	// suspiciously sparse. The comparison is strict: exactly 1% does not
	// trigger.
	sparsityFloor = 0.01

	// gradientFloor is the absolute gradient magnitude every element must
	// strictly exceed, along every axis, for the adversarial-pattern check.
	gradientFloor = 100
)

// PatternReport is the outcome of one pattern-analysis pass.
type PatternReport struct {
	// Labels lists the triggered heuristics in detection order, without
	// duplicates.
	Labels []string `json:"suspicious_patterns"`

	// Stats carries diagnostics computed during the pass. Zero-valued when
	// coercion failed.
	Stats PatternStats `json:"details"`
}

// PatternStats holds the diagnostic measurements behind a report.
type PatternStats struct {
	Shape    []int   `json:"shape,omitempty"`
	Size     int     `json:"size"`
	MaxAbs   float64 `json:"max_abs"`
	Sparsity float64 `json:"sparsity"`

	// Error describes the coercion failure when the analysis_error label is
	// present.
	Error string `json:"error,omitempty"`
}

// PatternAnalyzer runs a fixed battery of statistical checks against one
// input tensor. It is stateless; Analyze is a pure function of its input.
type PatternAnalyzer struct{}

// NewPatternAnalyzer creates a pattern analyzer.
func NewPatternAnalyzer() *PatternAnalyzer {
	return &PatternAnalyzer{}
}

// Analyze runs every check against the input and returns the triggered
// labels. Analyze is total: an input that cannot be coerced into a uniform
// numeric tensor yields the single analysis_error label with every other
// check skipped, never an error to the caller.
func (pa *PatternAnalyzer) Analyze(input any) PatternReport {
	tensor, err := TensorFromAny(input)
	if err != nil {
		logging.Error().Err(err).Msg("pattern analysis error")
		metrics.AnalysisErrors.Inc()
		return PatternReport{
			Labels: []string{LabelAnalysisError},
			Stats:  PatternStats{Error: err.Error()},
		}
	}

	report := PatternReport{
		Stats: PatternStats{
			Shape: tensor.Shape(),
			Size:  tensor.Size(),
		},
	}

	report.Stats.MaxAbs = maxAbs(tensor.Data())
	if report.Stats.MaxAbs > extremeValueLimit {
		report.Labels = append(report.Labels, LabelExtremeValues)
	}

	// A zero-size tensor has no sparsity ratio; it is treated as not
	// suspicious rather than dividing by zero.
	if tensor.Size() > 0 {
		report.Stats.Sparsity = float64(countNonzero(tensor.Data())) / float64(tensor.Size())
		if report.Stats.Sparsity < sparsityFloor {
			report.Labels = append(report.Labels, LabelSuspiciousSparsity)
		}
	}

	// The saturated-gradient heuristic only applies to inputs with two or
	// more dimensions, each holding at least two samples.
	if tensor.Rank() >= 2 && tensor.gradientDefined() && tensor.gradientSaturatedAbove(gradientFloor) {
		report.Labels = append(report.Labels, LabelAdversarialPattern)
	}

	return report
}

func maxAbs(data []float64) float64 {
	var max float64
	for _, x := range data {
		if abs := math.Abs(x); abs > max {
			max = abs
		}
	}
	return max
}

func countNonzero(data []float64) int {
	count := 0
	for _, x := range data {
		if x != 0 {
			count++
		}
	}
	return count
}
