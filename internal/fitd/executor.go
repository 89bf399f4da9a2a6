package fitd

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/kinfit/internal/dataset"
	"github.com/GoSim-25-26J-441/kinfit/internal/fit"
	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/internal/report"
	"github.com/GoSim-25-26J-441/kinfit/pkg/config"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
)

// FitRequest asks for one fit. Empty fields fall back to the server
// configuration; Observations, when given, replace the built-in dataset.
type FitRequest struct {
	Model         string                  `json:"model"`
	Dataset       string                  `json:"dataset,omitempty"`
	Observations  kinetics.ObservationSet `json:"observations,omitempty"`
	Initial       []float64               `json:"initial,omitempty"`
	Lower         []float64               `json:"lower,omitempty"`
	Upper         []float64               `json:"upper,omitempty"`
	Method        string                  `json:"method,omitempty"`
	MaxIterations int                     `json:"max_iterations,omitempty"`
	Starts        int                     `json:"starts,omitempty"`
	Seed          int64                   `json:"seed,omitempty"`
}

// job is a validated request ready to run
type job struct {
	plan    *fit.Plan
	set     kinetics.ObservationSet
	dataset string
}

// FitExecutor validates fit requests and runs them, at most maxParallel at
// a time
type FitExecutor struct {
	store   *FitStore
	cfg     *config.Config
	metrics *Metrics

	sem chan struct{}
	wg  sync.WaitGroup
}

func NewFitExecutor(store *FitStore, cfg *config.Config, metrics *Metrics) *FitExecutor {
	maxParallel := cfg.Optimizer.MaxParallel
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &FitExecutor{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		sem:     make(chan struct{}, maxParallel),
	}
}

// Submit validates req and stores a new record. With wait the fit runs
// before Submit returns; otherwise it runs in the background and the
// pending record is returned. Invalid requests never create a record.
func (e *FitExecutor) Submit(ctx context.Context, req FitRequest, wait bool) (FitRecord, error) {
	j, err := e.prepare(req)
	if err != nil {
		return FitRecord{}, err
	}

	rec := e.store.Create(j.plan.Model.Name(), j.dataset)
	logger.Info("fit submitted", "fit_id", rec.ID, "model", rec.Model, "dataset", rec.Dataset, "wait", wait)

	if wait {
		e.run(ctx, rec.ID, j)
		out, _ := e.store.Get(rec.ID)
		return out, nil
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(context.Background(), rec.ID, j)
	}()
	return rec, nil
}

// Wait blocks until every background fit has finished
func (e *FitExecutor) Wait() {
	e.wg.Wait()
}

// checkLimits bounds the per-request work a client may ask for
func (e *FitExecutor) checkLimits(req FitRequest) error {
	if req.Starts < 0 || req.MaxIterations < 0 {
		return fmt.Errorf("%w: starts and max_iterations cannot be negative", ErrInvalidRequest)
	}
	if limit := e.cfg.Server.MaxStarts; limit > 0 && req.Starts > limit {
		return fmt.Errorf("%w: %d starts exceed the limit of %d", ErrInvalidRequest, req.Starts, limit)
	}
	if limit := e.cfg.Server.MaxIterations; limit > 0 && req.MaxIterations > limit {
		return fmt.Errorf("%w: %d iterations exceed the limit of %d", ErrInvalidRequest, req.MaxIterations, limit)
	}
	return nil
}

func (e *FitExecutor) prepare(req FitRequest) (*job, error) {
	plan, err := fit.PlanFromConfig(e.cfg, req.Model)
	if err != nil {
		return nil, err
	}
	if len(req.Initial) > 0 {
		plan.Initial = req.Initial
	}
	if len(req.Lower) > 0 || len(req.Upper) > 0 {
		lower, upper := plan.Bounds.Lower(), plan.Bounds.Upper()
		if len(req.Lower) > 0 {
			lower = req.Lower
		}
		if len(req.Upper) > 0 {
			upper = req.Upper
		}
		bounds, err := kinetics.NewBounds(lower, upper)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", fit.ErrInvalidBounds, err)
		}
		plan.Bounds = bounds
	}
	if req.Method != "" {
		plan.Settings.Method = fit.Method(strings.ToLower(req.Method))
	}
	if err := e.checkLimits(req); err != nil {
		return nil, err
	}
	if req.MaxIterations > 0 {
		plan.Settings.MaxIterations = req.MaxIterations
	}
	if req.Starts > 0 {
		plan.Starts = req.Starts
	}
	if req.Seed != 0 {
		plan.Settings.Seed = req.Seed
	}

	j := &job{plan: plan}
	if len(req.Observations) > 0 {
		if limit := e.cfg.Server.MaxObservations; limit > 0 && len(req.Observations) > limit {
			return nil, fmt.Errorf("%w: %d observations exceed the limit of %d", ErrInvalidRequest, len(req.Observations), limit)
		}
		if err := req.Observations.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		j.set = req.Observations
		j.dataset = "request"
	} else {
		name := req.Dataset
		if name == "" {
			name = e.cfg.Dataset
		}
		set, err := dataset.Load(name)
		if err != nil {
			return nil, err
		}
		j.set = set
		j.dataset = strings.ToLower(name)
	}

	if err := plan.Validate(j.set); err != nil {
		return nil, err
	}
	return j, nil
}

func (e *FitExecutor) run(ctx context.Context, id string, j *job) {
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		e.fail(id, ctx.Err())
		return
	}
	defer func() { <-e.sem }()

	if err := e.store.SetRunning(id); err != nil {
		logger.Error("failed to set running status", "fit_id", id, "error", err)
		return
	}
	e.metrics.fitStarted()
	start := time.Now()

	model := j.plan.Model.Name()
	res, err := j.plan.Run(ctx, j.set)
	if err == nil {
		var rep *report.Report
		rep, err = report.Build(j.dataset, res, j.set)
		if err == nil {
			e.metrics.fitFinished(model, StatusCompleted, time.Since(start), res.Score)
			if setErr := e.store.SetCompleted(id, rep); setErr != nil {
				logger.Error("failed to store fit report", "fit_id", id, "error", setErr)
			}
			logger.Info("fit completed", "fit_id", id, "score", res.Score, "termination", res.Termination.String())
			return
		}
	}

	e.metrics.fitFinished(model, StatusFailed, time.Since(start), 0)
	e.fail(id, err)
}

func (e *FitExecutor) fail(id string, err error) {
	logger.Warn("fit failed", "fit_id", id, "error", err)
	if setErr := e.store.SetFailed(id, err.Error()); setErr != nil {
		logger.Error("failed to set failed status", "fit_id", id, "error", setErr)
	}
}
