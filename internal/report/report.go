// Package report summarizes a fit against its observation set for the
// console and for JSON consumers.
package report

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/GoSim-25-26J-441/kinfit/internal/fit"
	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/pkg/utils"
)

// Parameter is one fitted value
type Parameter struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Point compares one observation with the fitted model
type Point struct {
	Index       int     `json:"index"`
	X1          float64 `json:"x1"`
	X2          float64 `json:"x2"`
	Temperature float64 `json:"temperature,omitempty"`
	Source      string  `json:"source,omitempty"`
	Observed    float64 `json:"observed"`
	Predicted   float64 `json:"predicted"`
	Deviation   float64 `json:"deviation"` // 1 - predicted/observed
}

// Group summarizes the points sharing one source tag
type Group struct {
	Source     string  `json:"source"`
	Points     int     `json:"points"`
	Score      float64 `json:"score"` // RMS relative deviation within the group
	MeanAbsDev float64 `json:"mean_abs_deviation"`
}

// Report is a fit summary
type Report struct {
	Dataset     string      `json:"dataset,omitempty"`
	Model       string      `json:"model"`
	Method      string      `json:"method"`
	Parameters  []Parameter `json:"parameters"`
	Score       float64     `json:"score"`
	RSquared    float64     `json:"r_squared"` // 0 when the observed rates are all equal
	MeanAbsDev  float64     `json:"mean_abs_deviation"`
	MaxAbsDev   float64     `json:"max_abs_deviation"`
	Iterations  int         `json:"iterations"`
	Evaluations int         `json:"evaluations"`
	Termination string      `json:"termination"`
	Reason      string      `json:"reason,omitempty"`
	Points      []Point     `json:"points"`
	Groups      []Group     `json:"groups,omitempty"` // only when the set mixes sources
}

// Build summarizes res against the set it was fitted on
func Build(dataset string, res *fit.Result, set kinetics.ObservationSet) (*Report, error) {
	if res == nil {
		return nil, fmt.Errorf("fit result is nil")
	}
	if len(res.Predictions) != len(set) || len(res.Deviations) != len(set) {
		return nil, fmt.Errorf("fit covers %d points but the set has %d", len(res.Predictions), len(set))
	}

	rep := &Report{
		Dataset:     dataset,
		Model:       res.Model,
		Method:      string(res.Method),
		Score:       res.Score,
		RSquared:    stat.RSquaredFrom(res.Predictions, set.Rates(), nil),
		MeanAbsDev:  utils.MeanAbs(res.Deviations),
		MaxAbsDev:   utils.MaxAbs(res.Deviations),
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
		Termination: res.Termination.String(),
		Reason:      res.Reason,
		Parameters:  make([]Parameter, len(res.Params)),
		Points:      make([]Point, len(set)),
	}
	if !utils.IsFinite(rep.RSquared) {
		rep.RSquared = 0
	}
	for i, v := range res.Params {
		rep.Parameters[i] = Parameter{Name: res.ParamNames[i], Value: v}
	}
	for i, o := range set {
		rep.Points[i] = Point{
			Index:       i,
			X1:          o.X1,
			X2:          o.X2,
			Temperature: o.Temperature,
			Source:      o.Source,
			Observed:    o.Rate,
			Predicted:   res.Predictions[i],
			Deviation:   res.Deviations[i],
		}
	}

	if sources := set.Sources(); len(sources) > 1 {
		for _, src := range sources {
			idx := set.Indices(src)
			dev := make([]float64, len(idx))
			for j, i := range idx {
				dev[j] = res.Deviations[i]
			}
			rep.Groups = append(rep.Groups, Group{
				Source:     src,
				Points:     len(idx),
				Score:      floats.Norm(dev, 2) / math.Sqrt(float64(len(dev))),
				MeanAbsDev: utils.MeanAbs(dev),
			})
		}
	}

	return rep, nil
}
