package fit

import (
	"fmt"

	"github.com/GoSim-25-26J-441/kinfit/pkg/config"
	"github.com/GoSim-25-26J-441/kinfit/pkg/utils"
)

// Method names a bounded minimization procedure
type Method string

const (
	// MethodNelderMead is the gonum Nelder-Mead simplex on the unit box
	MethodNelderMead Method = "nelder-mead"
	// MethodLBFGS is gonum L-BFGS with central finite-difference gradients
	MethodLBFGS Method = "lbfgs"
	// MethodCompass is a derivative-free compass (pattern) search
	MethodCompass Method = "compass"
)

// Settings configures a Driver
type Settings struct {
	Method            Method
	MaxIterations     int
	FunctionTolerance float64 // relative and absolute improvement tolerance
	StallIterations   int     // iterations without FunctionTolerance improvement before stopping
	StepTolerance     float64 // compass step size in unit-box coordinates
	GradientTolerance float64 // L-BFGS gradient norm
	InitialStep       float64 // initial simplex size / compass step in unit-box coordinates
	MaxEvalRetries    int
	Perturbation      utils.ScaleSchedule // fraction of the bound width per retry
	Seed              int64 // zero selects the default seed; runs are always reproducible
	KeepHistory       bool
}

// DefaultSettings uses ftol 1e-9 and at most 9000 iterations.
func DefaultSettings() Settings {
	return Settings{
		Method:            MethodNelderMead,
		MaxIterations:     9000,
		FunctionTolerance: 1e-9,
		StallIterations:   200,
		StepTolerance:     1e-10,
		GradientTolerance: 1e-10,
		InitialStep:       0.1,
		MaxEvalRetries:    3,
		Perturbation:      utils.NewExponentialScale(1e-8, 1e-2, 10),
		Seed:              1,
	}
}

// SettingsFromConfig converts the YAML optimizer section into Settings
func SettingsFromConfig(o config.Optimizer) Settings {
	s := DefaultSettings()
	s.Method = Method(o.Method)
	s.MaxIterations = o.MaxIterations
	s.FunctionTolerance = o.FunctionTolerance
	s.StallIterations = o.StallIterations
	s.StepTolerance = o.StepTolerance
	s.GradientTolerance = o.GradientTolerance
	s.MaxEvalRetries = o.Retry.MaxRetries
	s.Perturbation = utils.ScheduleFromConfig(o.Retry.Schedule, o.Retry.Base, o.Retry.Max)
	s.Seed = o.Seed
	return s.withDefaults()
}

// withDefaults fills zero fields from DefaultSettings
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Method == "" {
		s.Method = d.Method
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = d.MaxIterations
	}
	if s.StallIterations <= 0 {
		s.StallIterations = d.StallIterations
	}
	if s.StepTolerance <= 0 {
		s.StepTolerance = d.StepTolerance
	}
	if s.GradientTolerance <= 0 {
		s.GradientTolerance = d.GradientTolerance
	}
	if s.InitialStep <= 0 || s.InitialStep > 1 {
		s.InitialStep = d.InitialStep
	}
	if s.MaxEvalRetries < 0 {
		s.MaxEvalRetries = 0
	}
	if s.Perturbation == nil {
		s.Perturbation = d.Perturbation
	}
	if s.Seed == 0 {
		s.Seed = d.Seed
	}
	return s
}

// Validate checks the method name and tolerances
func (s Settings) Validate() error {
	switch s.Method {
	case MethodNelderMead, MethodLBFGS, MethodCompass:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, s.Method)
	}
	if s.FunctionTolerance < 0 {
		return fmt.Errorf("function tolerance cannot be negative")
	}
	return nil
}
