package utils

import (
	"math"
	"testing"
)

func TestClampFloat64(t *testing.T) {
	tests := []struct {
		value, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
		{0.0, 0.0, 10.0, 0.0},
		{10.0, 0.0, 10.0, 10.0},
	}

	for _, tt := range tests {
		result := ClampFloat64(tt.value, tt.min, tt.max)
		if result != tt.expected {
			t.Errorf("ClampFloat64(%f, %f, %f) = %f, expected %f", tt.value, tt.min, tt.max, result, tt.expected)
		}
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		value    float64
		expected bool
	}{
		{0, true},
		{-1e300, true},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}

	for _, tt := range tests {
		if got := IsFinite(tt.value); got != tt.expected {
			t.Errorf("IsFinite(%f) = %v, expected %v", tt.value, got, tt.expected)
		}
	}
}

func TestMeanAbsAndMaxAbs(t *testing.T) {
	values := []float64{-0.5, 0.25, -0.25, 1}
	if got := MeanAbs(values); got != 0.5 {
		t.Errorf("MeanAbs(%v) = %f, expected 0.5", values, got)
	}
	if got := MaxAbs(values); got != 1 {
		t.Errorf("MaxAbs(%v) = %f, expected 1", values, got)
	}
	if MeanAbs(nil) != 0 || MaxAbs(nil) != 0 {
		t.Errorf("expected zero for empty input")
	}
}

func TestCloneFloat64s(t *testing.T) {
	src := []float64{1, 2}
	dst := CloneFloat64s(src)
	dst[0] = 9
	if src[0] != 1 {
		t.Errorf("clone should not alias source")
	}
	if CloneFloat64s(nil) != nil {
		t.Errorf("clone of nil should be nil")
	}
}
