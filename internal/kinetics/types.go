package kinetics

import (
	"errors"
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/kinfit/pkg/utils"
)

// Observation is one experimental rate measurement.
type Observation struct {
	X1          float64 `yaml:"x1" json:"x1"`     // first independent variable (e.g. methanol partial pressure)
	X2          float64 `yaml:"x2" json:"x2"`     // second independent variable (e.g. oxygen partial pressure)
	Rate        float64 `yaml:"rate" json:"rate"` // observed reaction rate
	Temperature float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Source      string  `yaml:"source,omitempty" json:"source,omitempty"` // provenance tag
}

// ObservationSet is an ordered sequence of observations.
// Order only matters for display.
type ObservationSet []Observation

// Len returns the number of observations
func (s ObservationSet) Len() int {
	return len(s)
}

// Rates returns the observed rates in set order
func (s ObservationSet) Rates() []float64 {
	out := make([]float64, len(s))
	for i, o := range s {
		out[i] = o.Rate
	}
	return out
}

// Sources returns the distinct provenance tags in first-seen order
func (s ObservationSet) Sources() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, o := range s {
		if seen[o.Source] {
			continue
		}
		seen[o.Source] = true
		out = append(out, o.Source)
	}
	return out
}

// Indices returns the positions of observations tagged with source
func (s ObservationSet) Indices(source string) []int {
	out := make([]int, 0)
	for i, o := range s {
		if o.Source == source {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the data-model invariants of every observation:
// finite values, non-negative conditions and a positive rate.
func (s ObservationSet) Validate() error {
	if len(s) == 0 {
		return ErrEmptySet
	}
	for i, o := range s {
		if !utils.IsFinite(o.X1) || !utils.IsFinite(o.X2) || !utils.IsFinite(o.Rate) || !utils.IsFinite(o.Temperature) {
			return fmt.Errorf("observation %d: values must be finite (x1=%g, x2=%g, rate=%g, temperature=%g)", i, o.X1, o.X2, o.Rate, o.Temperature)
		}
		if o.X1 < 0 || o.X2 < 0 {
			return fmt.Errorf("observation %d: conditions must be non-negative (x1=%g, x2=%g)", i, o.X1, o.X2)
		}
		if o.Rate <= 0 {
			return fmt.Errorf("observation %d: rate must be positive, got %g", i, o.Rate)
		}
	}
	return nil
}

// ErrEmptySet is returned when an observation set has no points
var ErrEmptySet = errors.New("observation set is empty")

// Bound is an inclusive (lower, upper) box constraint on one parameter
type Bound struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
}

// Width returns upper - lower
func (b Bound) Width() float64 {
	return b.Upper - b.Lower
}

// Contains reports whether v lies in [Lower, Upper]
func (b Bound) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Bounds holds one Bound per parameter
type Bounds []Bound

// NewBounds zips lower and upper slices into Bounds
func NewBounds(lower, upper []float64) (Bounds, error) {
	if len(lower) != len(upper) {
		return nil, fmt.Errorf("bounds length mismatch: %d lower vs %d upper", len(lower), len(upper))
	}
	out := make(Bounds, len(lower))
	for i := range lower {
		out[i] = Bound{Lower: lower[i], Upper: upper[i]}
	}
	return out, nil
}

// Validate checks that there are n bounds and lower <= upper for each
func (b Bounds) Validate(n int) error {
	if len(b) != n {
		return fmt.Errorf("expected %d bounds, got %d", n, len(b))
	}
	for i, bd := range b {
		if math.IsNaN(bd.Lower) || math.IsNaN(bd.Upper) {
			return fmt.Errorf("bound %d is NaN", i)
		}
		if bd.Lower > bd.Upper {
			return fmt.Errorf("bound %d: lower %g exceeds upper %g", i, bd.Lower, bd.Upper)
		}
	}
	return nil
}

// Contains reports whether every component of p is inside its bound
func (b Bounds) Contains(p []float64) bool {
	if len(p) != len(b) {
		return false
	}
	for i, v := range p {
		if !b[i].Contains(v) {
			return false
		}
	}
	return true
}

// Project clamps p onto the box, writing into dst (allocated when nil)
func (b Bounds) Project(dst, p []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(p))
	}
	for i, v := range p {
		switch {
		case v < b[i].Lower:
			dst[i] = b[i].Lower
		case v > b[i].Upper:
			dst[i] = b[i].Upper
		default:
			dst[i] = v
		}
	}
	return dst
}

// Lower returns the lower bounds
func (b Bounds) Lower() []float64 {
	out := make([]float64, len(b))
	for i, bd := range b {
		out[i] = bd.Lower
	}
	return out
}

// Upper returns the upper bounds
func (b Bounds) Upper() []float64 {
	out := make([]float64, len(b))
	for i, bd := range b {
		out[i] = bd.Upper
	}
	return out
}
