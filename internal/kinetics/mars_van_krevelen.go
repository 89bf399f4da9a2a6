package kinetics

import "math"

// MarsVanKrevelen is the Mars-van Krevelen redox rate law without water
// inhibition
//
//	r = kr*ko*x1*sqrt(x2) / (kr*x1 + ko*sqrt(x2))
//
// A denominator of exactly zero yields a rate of zero.
type MarsVanKrevelen struct{}

func (MarsVanKrevelen) Name() string {
	return ModelMarsVanKrevelen
}

func (MarsVanKrevelen) ParamNames() []string {
	return []string{"kr", "ko"}
}

func (MarsVanKrevelen) NumParams() int {
	return 2
}

func (MarsVanKrevelen) Predict(params []float64, obs Observation) float64 {
	kr, ko := params[0], params[1]
	sx2 := math.Sqrt(obs.X2)
	den := kr*obs.X1 + ko*sx2
	if den == 0 {
		return 0
	}
	return kr * ko * obs.X1 * sx2 / den
}

func (m MarsVanKrevelen) PredictBatch(params []float64, set ObservationSet) []float64 {
	return predictBatch(m, params, set)
}
