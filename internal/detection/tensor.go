// AI Security Monitor - Inference Request Threat Detection
// Copyright 2026 DeWitt
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dewitt4/ai-security-monitor

package detection

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Tensor is a dense n-dimensional numeric array in row-major order. A scalar
// input produces a rank-0 tensor with a single element.
type Tensor struct {
	shape []int
	data  []float64
}

// Shape returns the tensor dimensions. Rank-0 tensors return an empty slice.
func (t *Tensor) Shape() []int { return t.shape }

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.shape) }

// Size returns the total element count across all dimensions.
func (t *Tensor) Size() int { return len(t.data) }

// Data returns the flat element slice.
func (t *Tensor) Data() []float64 { return t.data }

// TensorFromAny coerces an arbitrary decoded payload into a uniform numeric
// tensor. Accepted shapes are single numbers and arbitrarily nested slices of
// numbers where every sub-slice at the same depth has the same length.
// Ragged nesting or non-numeric elements fail the coercion.
func TensorFromAny(v any) (*Tensor, error) {
	shape, err := measureShape(v, 0)
	if err != nil {
		return nil, err
	}

	size := 1
	for _, dim := range shape {
		size *= dim
	}

	t := &Tensor{shape: shape, data: make([]float64, 0, size)}
	if err := t.flatten(v, 0); err != nil {
		return nil, err
	}
	return t, nil
}

// measureShape derives the tensor shape from the first element at each
// nesting depth. flatten verifies the remaining elements against it.
func measureShape(v any, depth int) ([]int, error) {
	if depth > maxTensorRank {
		return nil, fmt.Errorf("input nesting exceeds %d dimensions", maxTensorRank)
	}

	switch val := v.(type) {
	case []any:
		if len(val) == 0 {
			return []int{0}, nil
		}
		inner, err := measureShape(val[0], depth+1)
		if err != nil {
			return nil, err
		}
		return append([]int{len(val)}, inner...), nil
	case []float64:
		return []int{len(val)}, nil
	case []int:
		return []int{len(val)}, nil
	default:
		if _, err := toFloat(v); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func (t *Tensor) flatten(v any, depth int) error {
	expectLeaf := depth == len(t.shape)

	switch val := v.(type) {
	case []any:
		if expectLeaf || len(val) != t.shape[depth] {
			return fmt.Errorf("ragged input: expected %s at depth %d", t.dimString(depth), depth)
		}
		for _, elem := range val {
			if err := t.flatten(elem, depth+1); err != nil {
				return err
			}
		}
		return nil
	case []float64:
		if expectLeaf || depth != len(t.shape)-1 || len(val) != t.shape[depth] {
			return fmt.Errorf("ragged input: expected %s at depth %d", t.dimString(depth), depth)
		}
		t.data = append(t.data, val...)
		return nil
	case []int:
		if expectLeaf || depth != len(t.shape)-1 || len(val) != t.shape[depth] {
			return fmt.Errorf("ragged input: expected %s at depth %d", t.dimString(depth), depth)
		}
		for _, n := range val {
			t.data = append(t.data, float64(n))
		}
		return nil
	default:
		if !expectLeaf {
			return fmt.Errorf("ragged input: expected %s at depth %d", t.dimString(depth), depth)
		}
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		t.data = append(t.data, f)
		return nil
	}
}

func (t *Tensor) dimString(depth int) string {
	if depth >= len(t.shape) {
		return "a number"
	}
	return fmt.Sprintf("a sequence of length %d", t.shape[depth])
}

// maxTensorRank bounds recursion on adversarially nested payloads.
const maxTensorRank = 32

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("non-numeric element of type %T", v)
	}
}

// strides returns the row-major stride for each axis.
func (t *Tensor) strides() []int {
	strides := make([]int, len(t.shape))
	stride := 1
	for axis := len(t.shape) - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= t.shape[axis]
	}
	return strides
}

// gradientDefined reports whether the discrete gradient is defined along
// every axis, which requires at least two samples per axis.
func (t *Tensor) gradientDefined() bool {
	if t.Rank() == 0 || t.Size() == 0 {
		return false
	}
	for _, dim := range t.shape {
		if dim < 2 {
			return false
		}
	}
	return true
}

// gradientSaturatedAbove reports whether every element of the discrete
// gradient along every axis has absolute value strictly greater than floor.
// The gradient uses central differences in the interior and one-sided
// differences at the boundaries. Callers must check gradientDefined first.
func (t *Tensor) gradientSaturatedAbove(floor float64) bool {
	strides := t.strides()
	for axis, dim := range t.shape {
		stride := strides[axis]
		for pos := range t.data {
			coord := (pos / stride) % dim
			var g float64
			switch coord {
			case 0:
				g = t.data[pos+stride] - t.data[pos]
			case dim - 1:
				g = t.data[pos] - t.data[pos-stride]
			default:
				g = (t.data[pos+stride] - t.data[pos-stride]) / 2
			}
			if g < 0 {
				g = -g
			}
			if g <= floor {
				return false
			}
		}
	}
	return true
}
