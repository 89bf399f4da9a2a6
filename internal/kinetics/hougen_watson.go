package kinetics

import "math"

// HougenWatson is the Hougen-Watson rate law
//
//	r = b1*b2*b3*x1*sqrt(x2) / (1 + b2*x1 + b3*sqrt(x2))^2
//
// With non-negative conditions and b2, b3 >= 0 the denominator is at least 1.
type HougenWatson struct{}

func (HougenWatson) Name() string {
	return ModelHougenWatson
}

func (HougenWatson) ParamNames() []string {
	return []string{"b1", "b2", "b3"}
}

func (HougenWatson) NumParams() int {
	return 3
}

func (HougenWatson) Predict(params []float64, obs Observation) float64 {
	b1, b2, b3 := params[0], params[1], params[2]
	sx2 := math.Sqrt(obs.X2)
	den := 1 + b2*obs.X1 + b3*sx2
	return (b1 * b2 * b3) * obs.X1 * sx2 / (den * den)
}

func (m HougenWatson) PredictBatch(params []float64, set ObservationSet) []float64 {
	return predictBatch(m, params, set)
}
