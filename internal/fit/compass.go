package fit

import (
	"math"

	"github.com/GoSim-25-26J-441/kinfit/pkg/utils"
)

// searchOutcome is what a search method reports back to the driver
type searchOutcome struct {
	iterations  int
	termination Termination
	reason      string
	history     []Step
}

// runCompass is a bounded hill-climbing search in unit-box coordinates.
// Each iteration tries +/-step along every free axis and moves to the best
// improving neighbour; when no neighbour improves the step is halved.
func (d *Driver) runCompass(p *boundedProblem, u0 []float64) searchOutcome {
	current := make([]float64, len(u0))
	for i, v := range u0 {
		current[i] = utils.ClampFloat64(v, 0, 1)
	}
	currentScore := p.score(current)

	history := []Step{{Iteration: 0, Score: currentScore, Params: p.toParams(current)}}
	step := d.settings.InitialStep
	strategy := d.convergence
	if strategy == nil {
		strategy = NewCombinedStrategy(NewFunctionToleranceStrategy(d.settings.FunctionTolerance, d.settings.StallIterations))
	}

	for iteration := 1; iteration <= d.settings.MaxIterations; iteration++ {
		var bestNeighbor []float64
		bestNeighborScore := math.Inf(1)
		for _, neighbor := range d.compassNeighbors(p, current, step) {
			score := p.score(neighbor)
			if score < bestNeighborScore {
				bestNeighborScore = score
				bestNeighbor = neighbor
			}
		}
		if p.fatal != nil {
			return searchOutcome{iterations: iteration, termination: TerminationConverged, reason: "objective error", history: history}
		}

		if bestNeighbor != nil && bestNeighborScore < currentScore {
			current = bestNeighbor
			currentScore = bestNeighborScore
		} else {
			step /= 2
		}

		history = append(history, Step{
			Iteration: iteration,
			Score:     currentScore,
			Params:    p.toParams(current),
		})
		d.report(iteration, currentScore)

		if step < d.settings.StepTolerance {
			return searchOutcome{iterations: iteration, termination: TerminationConverged, reason: "step size below tolerance", history: history}
		}
		if converged, reason := strategy.CheckConvergence(history); converged {
			return searchOutcome{iterations: iteration, termination: TerminationConverged, reason: reason, history: history}
		}
	}

	return searchOutcome{
		iterations:  d.settings.MaxIterations,
		termination: TerminationIterationLimit,
		reason:      "max iterations reached",
		history:     history,
	}
}

// compassNeighbors returns the +/-step points along each axis with a
// non-zero bound width, clamped to the unit box. Points that clamp back onto
// current are skipped.
func (d *Driver) compassNeighbors(p *boundedProblem, current []float64, step float64) [][]float64 {
	neighbors := make([][]float64, 0, 2*len(current))
	for i := range current {
		if p.bounds[i].Width() == 0 {
			continue
		}
		for _, sign := range []float64{1, -1} {
			v := utils.ClampFloat64(current[i]+sign*step, 0, 1)
			if v == current[i] {
				continue
			}
			neighbor := make([]float64, len(current))
			copy(neighbor, current)
			neighbor[i] = v
			neighbors = append(neighbors, neighbor)
		}
	}
	return neighbors
}
