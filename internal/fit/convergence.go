package fit

import (
	"fmt"
	"math"
)

// ConvergenceStrategy decides from the score history whether a search has
// converged
type ConvergenceStrategy interface {
	// CheckConvergence checks if optimization has converged based on history
	CheckConvergence(history []Step) (bool, string)
	// Name returns the name of the convergence strategy
	Name() string
}

// FunctionToleranceStrategy converges when the score improved by no more
// than Tolerance (relative to the score magnitude, plus the same absolute
// amount) over the last Window iterations.
type FunctionToleranceStrategy struct {
	Tolerance float64
	Window    int
}

// NewFunctionToleranceStrategy creates a function-tolerance strategy
func NewFunctionToleranceStrategy(tolerance float64, window int) *FunctionToleranceStrategy {
	if window < 1 {
		window = 1
	}
	return &FunctionToleranceStrategy{Tolerance: tolerance, Window: window}
}

func (s *FunctionToleranceStrategy) Name() string {
	return "function_tolerance"
}

func (s *FunctionToleranceStrategy) CheckConvergence(history []Step) (converged bool, reason string) {
	if len(history) <= s.Window {
		return false, ""
	}

	old := history[len(history)-1-s.Window].Score
	cur := history[len(history)-1].Score
	if math.IsInf(old, 0) || math.IsNaN(old) || math.IsInf(cur, 0) || math.IsNaN(cur) {
		return false, ""
	}

	improvement := old - cur
	limit := s.Tolerance*math.Max(math.Abs(old), math.Abs(cur)) + s.Tolerance
	if improvement <= limit {
		return true, fmt.Sprintf("improvement %.3g over %d iterations below tolerance %.3g", improvement, s.Window, s.Tolerance)
	}
	return false, ""
}

// CombinedStrategy converges as soon as any member strategy converges
type CombinedStrategy struct {
	strategies []ConvergenceStrategy
}

// NewCombinedStrategy creates a combined strategy from the given members
func NewCombinedStrategy(strategies ...ConvergenceStrategy) *CombinedStrategy {
	return &CombinedStrategy{strategies: strategies}
}

func (s *CombinedStrategy) Name() string {
	return "combined"
}

func (s *CombinedStrategy) CheckConvergence(history []Step) (converged bool, reason string) {
	for _, strategy := range s.strategies {
		converged, reason := strategy.CheckConvergence(history)
		if converged {
			return true, fmt.Sprintf("%s: %s", strategy.Name(), reason)
		}
	}

	return false, ""
}

// AddStrategy adds a custom strategy to the combined strategy
func (s *CombinedStrategy) AddStrategy(strategy ConvergenceStrategy) {
	s.strategies = append(s.strategies, strategy)
}
