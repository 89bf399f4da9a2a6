package utils

import (
	"math"
)

// ScaleSchedule yields a growing magnitude per retry attempt. The fit
// driver uses it to size the perturbation applied to a candidate whose
// score was not finite.
type ScaleSchedule interface {
	// Scale returns the magnitude for the given attempt number (0-indexed)
	Scale(attempt int) float64
}

// ConstantScale returns the same magnitude for every attempt
type ConstantScale struct {
	Value float64
}

// NewConstantScale creates a new constant schedule
func NewConstantScale(value float64) *ConstantScale {
	return &ConstantScale{Value: value}
}

// Scale returns the constant magnitude
func (cs *ConstantScale) Scale(attempt int) float64 {
	return cs.Value
}

// LinearScale grows the magnitude linearly up to Max
type LinearScale struct {
	Base float64
	Max  float64
}

// NewLinearScale creates a new linear schedule
func NewLinearScale(base, max float64) *LinearScale {
	return &LinearScale{
		Base: base,
		Max:  max,
	}
}

// Scale returns the linearly increasing magnitude
func (ls *LinearScale) Scale(attempt int) float64 {
	return math.Min(ls.Base*float64(attempt+1), ls.Max)
}

// ExponentialScale grows the magnitude geometrically up to Max
type ExponentialScale struct {
	Base       float64
	Multiplier float64
	Max        float64
}

// NewExponentialScale creates a new exponential schedule
func NewExponentialScale(base, max, multiplier float64) *ExponentialScale {
	if multiplier <= 0 {
		multiplier = 10.0
	}
	return &ExponentialScale{
		Base:       base,
		Multiplier: multiplier,
		Max:        max,
	}
}

// Scale returns the exponentially increasing magnitude
func (es *ExponentialScale) Scale(attempt int) float64 {
	return math.Min(es.Base*math.Pow(es.Multiplier, float64(attempt)), es.Max)
}

// ScheduleFromConfig creates a schedule from config parameters
func ScheduleFromConfig(kind string, base, max float64) ScaleSchedule {
	if max <= 0 {
		max = 0.1
	}

	switch kind {
	case "constant":
		return NewConstantScale(base)
	case "linear":
		return NewLinearScale(base, max)
	default:
		return NewExponentialScale(base, max, 10.0)
	}
}
