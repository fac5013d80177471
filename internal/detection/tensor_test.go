// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"reflect"
	"testing"
)

func TestTensorFromAny_Scalar(t *testing.T) {
	tensor, err := TensorFromAny(float64(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tensor.Rank() != 0 {
		t.Errorf("Rank() = %d, want 0", tensor.Rank())
	}
	if tensor.Size() != 1 {
		t.Errorf("Size() = %d, want 1", tensor.Size())
	}
	if tensor.Data()[0] != 7 {
		t.Errorf("Data()[0] = %v, want 7", tensor.Data()[0])
	}
}

func TestTensorFromAny_Nested(t *testing.T) {
	input := []any{
		[]any{float64(1), float64(2), float64(3)},
		[]any{float64(4), float64(5), float64(6)},
	}

	tensor, err := TensorFromAny(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(tensor.Shape(), []int{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", tensor.Shape())
	}
	want := []float64{1, 2, 3, 4, 5, 6}
	if !reflect.DeepEqual(tensor.Data(), want) {
		t.Errorf("Data() = %v, want %v", tensor.Data(), want)
	}
}

func TestTensorFromAny_FloatSlice(t *testing.T) {
	tensor, err := TensorFromAny([]float64{1, 0, 0, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(tensor.Shape(), []int{4}) {
		t.Errorf("Shape() = %v, want [4]", tensor.Shape())
	}
}

func TestTensorFromAny_MixedIntFloat(t *testing.T) {
	tensor, err := TensorFromAny([]any{1, float64(2.5), int64(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 2.5, 3}
	if !reflect.DeepEqual(tensor.Data(), want) {
		t.Errorf("Data() = %v, want %v", tensor.Data(), want)
	}
}

func TestTensorFromAny_Empty(t *testing.T) {
	tensor, err := TensorFromAny([]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tensor.Size() != 0 {
		t.Errorf("Size() = %d, want 0", tensor.Size())
	}
	if !reflect.DeepEqual(tensor.Shape(), []int{0}) {
		t.Errorf("Shape() = %v, want [0]", tensor.Shape())
	}
}

func TestTensorFromAny_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{
			name:  "ragged rows",
			input: []any{[]any{float64(1), float64(2)}, []any{float64(3)}},
		},
		{
			name:  "mixed depth",
			input: []any{float64(1), []any{float64(2)}},
		},
		{
			name:  "non-numeric element",
			input: []any{float64(1), "two"},
		},
		{
			name:  "non-numeric scalar",
			input: "hello",
		},
		{
			name:  "map element",
			input: []any{map[string]any{"a": 1.0}},
		},
		{
			name:  "bool element",
			input: []any{true, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := TensorFromAny(tt.input); err == nil {
				t.Error("expected coercion error but got nil")
			}
		})
	}
}

func TestTensorGradientDefined(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected bool
	}{
		{
			name:     "2x2 matrix",
			input:    []any{[]any{1.0, 2.0}, []any{3.0, 4.0}},
			expected: true,
		},
		{
			name:     "single row",
			input:    []any{[]any{1.0, 2.0, 3.0}},
			expected: false,
		},
		{
			name:     "single column",
			input:    []any{[]any{1.0}, []any{2.0}},
			expected: false,
		},
		{
			name:     "empty",
			input:    []any{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tensor, err := TensorFromAny(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := tensor.gradientDefined(); got != tt.expected {
				t.Errorf("gradientDefined() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTensorGradientSaturatedAbove(t *testing.T) {
	// Values rise by 200 per step in both directions: every central and
	// one-sided difference is exactly 200 along rows and columns.
	steep := []any{
		[]any{0.0, 200.0, 400.0},
		[]any{200.0, 400.0, 600.0},
		[]any{400.0, 600.0, 800.0},
	}
	tensor, err := TensorFromAny(steep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tensor.gradientSaturatedAbove(100) {
		t.Error("expected saturated gradient for steep ramp")
	}
	if tensor.gradientSaturatedAbove(200) {
		t.Error("strict comparison: gradient of exactly 200 must not exceed floor 200")
	}

	flat := []any{
		[]any{5.0, 5.0},
		[]any{5.0, 5.0},
	}
	tensor, err = TensorFromAny(flat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tensor.gradientSaturatedAbove(100) {
		t.Error("constant matrix must not report a saturated gradient")
	}
}

func TestTensorGradientMixedAxes(t *testing.T) {
	// Steep along rows, flat along columns: the all-axes condition fails.
	input := []any{
		[]any{0.0, 500.0, 1000.0},
		[]any{0.0, 500.0, 1000.0},
	}
	tensor, err := TensorFromAny(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tensor.gradientSaturatedAbove(100) {
		t.Error("gradient must be saturated along every axis, not just one")
	}
}
