package fit

import (
	"errors"
	"fmt"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
)

var (
	// ErrInvalidBounds indicates bounds of the wrong length or with lower > upper
	ErrInvalidBounds = errors.New("invalid bounds")
	// ErrParamCount indicates an initial guess whose length does not match the model
	ErrParamCount = errors.New("parameter count mismatch")
	// ErrUnknownMethod indicates an unrecognized optimization method
	ErrUnknownMethod = errors.New("unknown optimization method")
	// ErrInvalidObservation indicates a non-finite, negative-condition or
	// negative-rate observation
	ErrInvalidObservation = errors.New("invalid observation")
)

// InvalidInitialGuessError indicates an initial parameter outside its bound
type InvalidInitialGuessError struct {
	Index int
	Name  string
	Value float64
	Bound kinetics.Bound
}

func (e *InvalidInitialGuessError) Error() string {
	return fmt.Sprintf("invalid initial guess: %s=%g outside [%g, %g]", e.Name, e.Value, e.Bound.Lower, e.Bound.Upper)
}

// DivergenceError indicates the optimizer never obtained a finite score
type DivergenceError struct {
	Evaluations int
	NonFinite   int
	HasFinite   bool
	LastFinite  float64
}

func (e *DivergenceError) Error() string {
	if e.HasFinite {
		return fmt.Sprintf("optimization diverged after %d evaluations (%d non-finite, last finite score %g)", e.Evaluations, e.NonFinite, e.LastFinite)
	}
	return fmt.Sprintf("optimization diverged: no finite score in %d evaluations", e.Evaluations)
}
