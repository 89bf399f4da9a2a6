// Package objective scores a parameter vector against an observation set.
//
// The score is the root mean square of the relative deviations
//
//	score = sqrt( sum_i (1 - predicted_i/observed_i)^2 / N )
//
// Lower is better; a perfect fit scores zero.
package objective

import (
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
)

// Evaluation is the full result of one objective evaluation
type Evaluation struct {
	Score       float64
	Predictions []float64 // aligned 1:1 with the observation set
	Deviations  []float64 // 1 - predicted/observed per point
}

// Evaluate computes predictions and the score for params.
func Evaluate(params []float64, set kinetics.ObservationSet, model kinetics.Model) (*Evaluation, error) {
	if err := precheck(params, set, model); err != nil {
		return nil, err
	}

	predictions := model.PredictBatch(params, set)
	deviations := make([]float64, len(set))
	sumSq := 0.0
	for i, o := range set {
		if o.Rate == 0 {
			return nil, &NumericDomainError{Index: i, Observed: o.Rate}
		}
		d := 1 - predictions[i]/o.Rate
		deviations[i] = d
		sumSq += d * d
	}

	return &Evaluation{
		Score:       rms(sumSq, len(set)),
		Predictions: predictions,
		Deviations:  deviations,
	}, nil
}

// Score computes only the scalar score. It returns the same value as
// Evaluate(...).Score without building the prediction slices.
func Score(params []float64, set kinetics.ObservationSet, model kinetics.Model) (float64, error) {
	if err := precheck(params, set, model); err != nil {
		return 0, err
	}

	sumSq := 0.0
	for i, o := range set {
		if o.Rate == 0 {
			return 0, &NumericDomainError{Index: i, Observed: o.Rate}
		}
		d := 1 - model.Predict(params, o)/o.Rate
		sumSq += d * d
	}
	return rms(sumSq, len(set)), nil
}

// CheckRates returns a NumericDomainError for the first zero observed rate.
func CheckRates(set kinetics.ObservationSet) error {
	for i, o := range set {
		if o.Rate == 0 {
			return &NumericDomainError{Index: i, Observed: o.Rate}
		}
	}
	return nil
}

func precheck(params []float64, set kinetics.ObservationSet, model kinetics.Model) error {
	if model == nil {
		return fmt.Errorf("rate-law model is required")
	}
	if len(set) == 0 {
		return kinetics.ErrEmptySet
	}
	if len(params) != model.NumParams() {
		return fmt.Errorf("%s expects %d parameters, got %d", model.Name(), model.NumParams(), len(params))
	}
	return nil
}

func rms(sumSq float64, n int) float64 {
	return math.Sqrt(sumSq / float64(n))
}

// NumericDomainError reports an observation whose rate makes the relative
// deviation undefined.
type NumericDomainError struct {
	Index    int
	Observed float64
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("numeric domain error: observed rate at index %d is %g", e.Index, e.Observed)
}
