package fit

import (
	"math"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/internal/objective"
	"github.com/GoSim-25-26J-441/kinfit/pkg/logger"
	"github.com/GoSim-25-26J-441/kinfit/pkg/utils"
)

// boundEdge is how far inside a bound, as a fraction of the bound width, a
// start point lying on that bound is moved under the smooth map
const boundEdge = 1e-6

// boundedProblem exposes the score-only objective to a search that works in
// unit-box coordinates, so every candidate reaching the objective lies inside
// the bounds. The compass search uses the linear map
// lower + width*clamp(u, 0, 1). The gonum methods use the smooth map
// lower + width*(1-cos(pi*u))/2, which has no flat region outside the box
// for a line search or simplex to stall in.
type boundedProblem struct {
	model    kinetics.Model
	set      kinetics.ObservationSet
	bounds   kinetics.Bounds
	smooth   bool
	retries  int
	schedule utils.ScaleSchedule
	rng      *utils.RandSource

	evaluations int
	nonFinite   int
	best        []float64
	bestScore   float64
	fatal       error
}

func newBoundedProblem(model kinetics.Model, set kinetics.ObservationSet, bounds kinetics.Bounds, s Settings) *boundedProblem {
	return &boundedProblem{
		model:     model,
		set:       set,
		bounds:    bounds,
		smooth:    s.Method != MethodCompass,
		retries:   s.MaxEvalRetries,
		schedule:  s.Perturbation,
		rng:       utils.NewRandSource(s.Seed),
		bestScore: math.Inf(1),
	}
}

// toParams maps unit-box coordinates to a fresh parameter vector
func (p *boundedProblem) toParams(u []float64) []float64 {
	x := make([]float64, len(p.bounds))
	for i, b := range p.bounds {
		var frac float64
		if p.smooth {
			frac = (1 - math.Cos(math.Pi*u[i])) / 2
		} else {
			frac = utils.ClampFloat64(u[i], 0, 1)
		}
		v := b.Lower + b.Width()*frac
		// rounding in lower + width*1 can overshoot upper by an ulp
		x[i] = utils.ClampFloat64(v, b.Lower, b.Upper)
	}
	return x
}

// toUnit maps a parameter vector inside the bounds to unit-box coordinates.
// Under the smooth map a bound is a stationary point of the search, so a
// component lying on a bound starts boundEdge inside it.
func (p *boundedProblem) toUnit(x []float64) []float64 {
	u := make([]float64, len(p.bounds))
	for i, b := range p.bounds {
		w := b.Width()
		if w <= 0 {
			continue
		}
		frac := (x[i] - b.Lower) / w
		if p.smooth {
			frac = utils.ClampFloat64(frac, boundEdge, 1-boundEdge)
			u[i] = math.Acos(1-2*frac) / math.Pi
			continue
		}
		u[i] = frac
	}
	return u
}

// score is the function handed to the search methods. Non-finite scores are
// retried on a perturbed candidate; if every attempt fails the search sees
// +Inf. A fatal objective error stops all further evaluation.
func (p *boundedProblem) score(u []float64) float64 {
	if p.fatal != nil {
		return math.Inf(1)
	}

	x := p.toParams(u)
	for attempt := 0; ; attempt++ {
		p.evaluations++
		s, err := objective.Score(x, p.set, p.model)
		if err != nil {
			p.fatal = err
			return math.Inf(1)
		}
		if utils.IsFinite(s) {
			if s < p.bestScore {
				p.bestScore = s
				p.best = x
			}
			return s
		}
		if attempt >= p.retries {
			p.nonFinite++
			return math.Inf(1)
		}
		logger.Debug("non-finite score, perturbing candidate", "attempt", attempt+1, "params", x)
		x = p.perturb(x, attempt)
	}
}

// perturb returns a new candidate near x, still inside the bounds
func (p *boundedProblem) perturb(x []float64, attempt int) []float64 {
	scale := p.schedule.Scale(attempt)
	out := make([]float64, len(x))
	for i, b := range p.bounds {
		out[i] = x[i] + scale*b.Width()*p.rng.Symmetric()
	}
	return p.bounds.Project(out, out)
}

func (p *boundedProblem) hasBest() bool {
	return p.best != nil
}
