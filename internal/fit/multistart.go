package fit

import (
	"context"
	"fmt"
	"sync"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
	"github.com/GoSim-25-26J-441/kinfit/pkg/utils"
)

// MultiStartResult holds every independent run and the best of them
type MultiStartResult struct {
	Best   *Result
	Starts [][]float64
	Runs   []*Result // nil where the run failed
	Errors []error   // nil where the run succeeded
}

// StartPoints returns the initial guess followed by n-1 points drawn
// uniformly inside the bounds from a source seeded with seed.
func StartPoints(initial []float64, bounds kinetics.Bounds, n int, seed int64) [][]float64 {
	if n < 1 {
		n = 1
	}
	rng := utils.NewRandSource(seed)
	starts := make([][]float64, 0, n)
	starts = append(starts, utils.CloneFloat64s(initial))
	for len(starts) < n {
		x := make([]float64, len(bounds))
		for i, b := range bounds {
			x[i] = rng.UniformFloat64(b.Lower, b.Upper)
		}
		starts = append(starts, x)
	}
	return starts
}

// MultiStart runs independent fits from several starting points, at most
// maxParallel at a time, and keeps the lowest score. Each fit is itself a
// strictly sequential search.
func (d *Driver) MultiStart(ctx context.Context, starts, maxParallel int, initial []float64, bounds kinetics.Bounds, set kinetics.ObservationSet, model kinetics.Model) (*MultiStartResult, error) {
	if err := ValidateInputs(initial, bounds, set, model); err != nil {
		return nil, err
	}
	if maxParallel < 1 {
		maxParallel = 1
	}

	points := StartPoints(initial, bounds, starts, d.settings.Seed)
	results := make([]*Result, len(points))
	errs := make([]error, len(points))

	// Limit parallelism
	semaphore := make(chan struct{}, maxParallel)
	var wg sync.WaitGroup

	for i, start := range points {
		wg.Add(1)
		go func(idx int, x0 []float64) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}
			defer func() { <-semaphore }()

			settings := d.settings
			settings.Seed = d.settings.Seed + int64(idx)
			run := NewDriver(settings).WithConvergence(d.convergence)
			results[idx], errs[idx] = run.Fit(x0, bounds, set, model)
		}(i, start)
	}

	wg.Wait()

	out := &MultiStartResult{Starts: points, Runs: results, Errors: errs}
	var firstErr error
	for i, r := range results {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			logger.Warn("multi-start run failed", "start", i, "error", errs[i])
			continue
		}
		if out.Best == nil || r.Score < out.Best.Score {
			out.Best = r
		}
	}
	if out.Best == nil {
		return out, fmt.Errorf("all %d starts failed: %w", len(points), firstErr)
	}

	logger.Info("multi-start finished", "model", model.Name(), "starts", len(points), "best_score", out.Best.Score)
	return out, nil
}
