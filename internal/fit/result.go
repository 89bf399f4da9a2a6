package fit

// Termination says why the search stopped. Both values are successful fits.
type Termination int

const (
	// TerminationConverged means a tolerance criterion was met
	TerminationConverged Termination = iota
	// TerminationIterationLimit means the iteration budget ran out
	TerminationIterationLimit
)

func (t Termination) String() string {
	switch t {
	case TerminationConverged:
		return "converged"
	case TerminationIterationLimit:
		return "iteration_limit"
	default:
		return "unknown"
	}
}

// Step is one recorded iteration of the search
type Step struct {
	Iteration int
	Score     float64
	Params    []float64
}

// Result is the outcome of a fit. It is built once, at termination.
type Result struct {
	Model       string
	Method      Method
	ParamNames  []string
	Params      []float64
	Score       float64
	Predictions []float64 // aligned 1:1 with the observation set
	Deviations  []float64 // 1 - predicted/observed per point
	Iterations  int
	Evaluations int
	Termination Termination
	Reason      string
	History     []Step
}

// Converged reports whether a tolerance criterion ended the search
func (r *Result) Converged() bool {
	return r.Termination == TerminationConverged
}

// Param returns the fitted value of the named parameter
func (r *Result) Param(name string) (float64, bool) {
	for i, n := range r.ParamNames {
		if n == name {
			return r.Params[i], true
		}
	}
	return 0, false
}
