package fit

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
)

// fdStep is the central-difference step in unit-box coordinates
const fdStep = 1e-6

// runGonum drives a gonum/optimize method over the unit-box problem
func (d *Driver) runGonum(p *boundedProblem, u0 []float64) (searchOutcome, error) {
	problem := optimize.Problem{
		Func: p.score,
		Status: func() (optimize.Status, error) {
			if p.fatal != nil {
				return optimize.Failure, p.fatal
			}
			return optimize.NotTerminated, nil
		},
	}

	var method optimize.Method
	switch d.settings.Method {
	case MethodLBFGS:
		fdSettings := &fd.Settings{Formula: fd.Central, Step: fdStep}
		problem.Grad = func(grad, x []float64) {
			fd.Gradient(grad, p.score, x, fdSettings)
		}
		method = &optimize.LBFGS{}
	default:
		method = &optimize.NelderMead{SimplexSize: d.settings.InitialStep}
	}

	rec := &historyRecorder{driver: d, problem: p, keep: d.settings.KeepHistory}
	settings := &optimize.Settings{
		MajorIterations:   d.settings.MaxIterations,
		GradientThreshold: d.settings.GradientTolerance,
		Converger: &optimize.FunctionConverge{
			Absolute:   d.settings.FunctionTolerance,
			Relative:   d.settings.FunctionTolerance,
			Iterations: d.settings.StallIterations,
		},
		Recorder: rec,
	}

	res, err := optimize.Minimize(problem, u0, settings, method)
	if p.fatal != nil {
		return searchOutcome{}, p.fatal
	}
	if err != nil {
		if !p.hasBest() {
			return searchOutcome{}, err
		}
		// The best finite point seen so far still stands.
		logger.Warn("optimizer stopped early", "method", string(d.settings.Method), "error", err)
		return searchOutcome{
			iterations:  rec.iterations,
			termination: TerminationConverged,
			reason:      "method stopped: " + err.Error(),
			history:     rec.history,
		}, nil
	}

	out := searchOutcome{
		iterations: res.Stats.MajorIterations,
		reason:     res.Status.String(),
		history:    rec.history,
	}
	switch res.Status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.GradientEvaluationLimit,
		optimize.HessianEvaluationLimit, optimize.RuntimeLimit:
		out.termination = TerminationIterationLimit
	default:
		out.termination = TerminationConverged
	}
	return out, nil
}

// historyRecorder implements optimize.Recorder; it reports progress on every
// major iteration and optionally keeps the score history.
type historyRecorder struct {
	driver     *Driver
	problem    *boundedProblem
	keep       bool
	iterations int
	history    []Step
}

func (r *historyRecorder) Init() error {
	return nil
}

func (r *historyRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op != optimize.MajorIteration {
		return nil
	}
	r.iterations = stats.MajorIterations
	r.driver.report(stats.MajorIterations, loc.F)
	if r.keep {
		r.history = append(r.history, Step{
			Iteration: stats.MajorIterations,
			Score:     loc.F,
			Params:    r.problem.toParams(loc.X),
		})
	}
	return nil
}
