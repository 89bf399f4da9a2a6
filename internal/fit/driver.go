// Package fit drives a bounded local minimizer over the relative-deviation
// objective to estimate rate-law parameters.
package fit

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/internal/objective"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
	"github.com/GoSim-25-26J-441/kinfit/pkg/utils"
)

// Driver runs bounded fits. A Driver holds no per-fit state, so one value
// may serve concurrent Fit calls as long as its progress reporter is safe
// for concurrent use.
type Driver struct {
	settings    Settings
	progress    func(iteration int, score float64)
	convergence ConvergenceStrategy
}

// NewDriver creates a driver; zero-valued settings fields take defaults
func NewDriver(settings Settings) *Driver {
	return &Driver{settings: settings.withDefaults()}
}

// WithProgressReporter sets a callback invoked once per search iteration
func (d *Driver) WithProgressReporter(fn func(iteration int, score float64)) *Driver {
	d.progress = fn
	return d
}

// WithConvergence replaces the history-based convergence check of the
// compass search
func (d *Driver) WithConvergence(strategy ConvergenceStrategy) *Driver {
	d.convergence = strategy
	return d
}

// Settings returns the effective settings
func (d *Driver) Settings() Settings {
	return d.settings
}

func (d *Driver) report(iteration int, score float64) {
	if d.progress != nil {
		d.progress(iteration, score)
	}
}

// Fit resolves modelName and runs a single bounded fit
func Fit(modelName string, initial []float64, bounds kinetics.Bounds, set kinetics.ObservationSet, settings Settings) (*Result, error) {
	model, err := kinetics.NewModel(modelName)
	if err != nil {
		return nil, err
	}
	return NewDriver(settings).Fit(initial, bounds, set, model)
}

// Fit minimizes the objective for model over set, starting from initial and
// never evaluating a candidate outside bounds.
func (d *Driver) Fit(initial []float64, bounds kinetics.Bounds, set kinetics.ObservationSet, model kinetics.Model) (*Result, error) {
	if err := d.settings.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateInputs(initial, bounds, set, model); err != nil {
		return nil, err
	}

	log := logger.With("model", model.Name(), "method", string(d.settings.Method))
	log.Info("fit started", "observations", len(set), "initial", initial)

	p := newBoundedProblem(model, set, bounds, d.settings)
	u0 := p.toUnit(initial)

	var (
		out searchOutcome
		err error
	)
	switch d.settings.Method {
	case MethodCompass:
		out = d.runCompass(p, u0)
	default:
		out, err = d.runGonum(p, u0)
	}
	if p.fatal != nil {
		return nil, p.fatal
	}
	if err != nil && p.evaluations == 0 {
		return nil, fmt.Errorf("%s search failed: %w", d.settings.Method, err)
	}
	if !p.hasBest() {
		log.Error("fit diverged", "evaluations", p.evaluations, "non_finite", p.nonFinite)
		return nil, &DivergenceError{Evaluations: p.evaluations, NonFinite: p.nonFinite}
	}

	final, err := objective.Evaluate(p.best, set, model)
	if err != nil {
		return nil, err
	}
	if !utils.IsFinite(final.Score) {
		return nil, &DivergenceError{
			Evaluations: p.evaluations,
			NonFinite:   p.nonFinite,
			HasFinite:   true,
			LastFinite:  p.bestScore,
		}
	}

	result := &Result{
		Model:       model.Name(),
		Method:      d.settings.Method,
		ParamNames:  model.ParamNames(),
		Params:      utils.CloneFloat64s(p.best),
		Score:       final.Score,
		Predictions: final.Predictions,
		Deviations:  final.Deviations,
		Iterations:  out.iterations,
		Evaluations: p.evaluations,
		Termination: out.termination,
		Reason:      out.reason,
	}
	if d.settings.KeepHistory {
		result.History = out.history
	}

	log.Info("fit finished",
		"score", result.Score,
		"params", result.Params,
		"iterations", result.Iterations,
		"evaluations", result.Evaluations,
		"termination", result.Termination.String(),
		"reason", result.Reason,
	)
	return result, nil
}

// ValidateInputs checks everything that must hold before the first evaluation
func ValidateInputs(initial []float64, bounds kinetics.Bounds, set kinetics.ObservationSet, model kinetics.Model) error {
	if model == nil {
		return fmt.Errorf("rate-law model is required")
	}
	n := model.NumParams()
	if len(initial) != n {
		return fmt.Errorf("%w: %s expects %d parameters, got %d", ErrParamCount, model.Name(), n, len(initial))
	}
	if err := bounds.Validate(n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}
	names := model.ParamNames()
	for i, v := range initial {
		if math.IsNaN(v) || !bounds[i].Contains(v) {
			return &InvalidInitialGuessError{Index: i, Name: names[i], Value: v, Bound: bounds[i]}
		}
	}
	if len(set) == 0 {
		return kinetics.ErrEmptySet
	}
	if err := objective.CheckRates(set); err != nil {
		return err
	}
	if err := set.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidObservation, err)
	}
	return nil
}
