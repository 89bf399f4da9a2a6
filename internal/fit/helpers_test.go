package fit

import (
	"math"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
)

var matlabConditions = [][2]float64{
	{10.349, 7.878}, {4.063, 8.220}, {4.897, 10.354}, {5.331, 3.599},
	{8.332, 3.829}, {6.401, 5.351}, {3.305, 6.796}, {6.411, 13.135},
}

var matlabRates = []float64{
	0.020476014, 0.009821433, 0.012133934, 0.012740631,
	0.017745879, 0.014132819, 0.008593754, 0.01456072,
}

var hwBounds = kinetics.Bounds{{Lower: 0.005, Upper: 0.05}, {Lower: 5, Upper: 7}, {Lower: 14.807, Upper: 20}}

func matlabSet() kinetics.ObservationSet {
	set := make(kinetics.ObservationSet, len(matlabConditions))
	for i, c := range matlabConditions {
		set[i] = kinetics.Observation{X1: c[0], X2: c[1], Rate: matlabRates[i], Temperature: 783, Source: "matlab"}
	}
	return set
}

// syntheticSet returns the MATLAB conditions with rates generated by model
func syntheticSet(model kinetics.Model, params []float64) kinetics.ObservationSet {
	set := matlabSet()
	for i := range set {
		set[i].Rate = model.Predict(params, set[i])
	}
	return set
}

// recordingModel records every parameter vector it is asked to evaluate
type recordingModel struct {
	kinetics.Model
	seen [][]float64
}

func (m *recordingModel) Predict(params []float64, obs kinetics.Observation) float64 {
	m.seen = append(m.seen, append([]float64(nil), params...))
	return m.Model.Predict(params, obs)
}

func (m *recordingModel) PredictBatch(params []float64, set kinetics.ObservationSet) []float64 {
	out := make([]float64, len(set))
	for i, o := range set {
		out[i] = m.Predict(params, o)
	}
	return out
}

// nanModel never produces a finite rate
type nanModel struct {
	kinetics.MarsVanKrevelen
}

func (nanModel) Predict([]float64, kinetics.Observation) float64 {
	return math.NaN()
}

func (m nanModel) PredictBatch(params []float64, set kinetics.ObservationSet) []float64 {
	out := make([]float64, len(set))
	for i := range set {
		out[i] = m.Predict(params, set[i])
	}
	return out
}

// holeModel is Hougen-Watson with a narrow NaN hole around b1 == hole
type holeModel struct {
	kinetics.HougenWatson
	hole float64
}

func (m holeModel) Predict(params []float64, obs kinetics.Observation) float64 {
	if math.Abs(params[0]-m.hole) < 1e-12 {
		return math.NaN()
	}
	return m.HougenWatson.Predict(params, obs)
}

func (m holeModel) PredictBatch(params []float64, set kinetics.ObservationSet) []float64 {
	out := make([]float64, len(set))
	for i := range set {
		out[i] = m.Predict(params, set[i])
	}
	return out
}

// levelModel predicts a constant rate equal to its single parameter
type levelModel struct{}

func (levelModel) Name() string         { return "level" }
func (levelModel) ParamNames() []string { return []string{"k"} }
func (levelModel) NumParams() int       { return 1 }

func (levelModel) Predict(params []float64, _ kinetics.Observation) float64 {
	return params[0]
}

func (m levelModel) PredictBatch(params []float64, set kinetics.ObservationSet) []float64 {
	out := make([]float64, len(set))
	for i := range set {
		out[i] = m.Predict(params, set[i])
	}
	return out
}
