package fit

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/pkg/config"
)

// Plan is everything needed to fit one model: the resolved model, its
// starting point and box, and the driver settings
type Plan struct {
	Model       kinetics.Model
	Initial     []float64
	Bounds      kinetics.Bounds
	Settings    Settings
	Starts      int
	MaxParallel int
}

// PlanFromConfig resolves modelName (canonical name or alias) against cfg.
// An empty modelName selects cfg.Model.
func PlanFromConfig(cfg *config.Config, modelName string) (*Plan, error) {
	if modelName == "" {
		modelName = cfg.Model
	}
	model, err := kinetics.NewModel(modelName)
	if err != nil {
		return nil, err
	}

	ms, ok := cfg.ModelSettingsFor(model.Name())
	if !ok {
		return nil, fmt.Errorf("no initial guess or bounds configured for model %s", model.Name())
	}
	bounds, err := kinetics.NewBounds(ms.Lower, ms.Upper)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}

	return &Plan{
		Model:       model,
		Initial:     append([]float64(nil), ms.Initial...),
		Bounds:      bounds,
		Settings:    SettingsFromConfig(cfg.Optimizer),
		Starts:      cfg.Optimizer.Starts,
		MaxParallel: cfg.Optimizer.MaxParallel,
	}, nil
}

// Validate checks the plan against set without evaluating the objective
func (p *Plan) Validate(set kinetics.ObservationSet) error {
	if err := p.Settings.Validate(); err != nil {
		return err
	}
	return ValidateInputs(p.Initial, p.Bounds, set, p.Model)
}

// Run fits set once, or from several starts when Starts > 1
func (p *Plan) Run(ctx context.Context, set kinetics.ObservationSet) (*Result, error) {
	d := NewDriver(p.Settings)
	if p.Starts <= 1 {
		return d.Fit(p.Initial, p.Bounds, set, p.Model)
	}
	ms, err := d.MultiStart(ctx, p.Starts, p.MaxParallel, p.Initial, p.Bounds, set, p.Model)
	if err != nil {
		return nil, err
	}
	return ms.Best, nil
}
