package objective

import (
	"errors"
	"math"
	"testing"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
)

func matlabSet() kinetics.ObservationSet {
	return kinetics.ObservationSet{
		{X1: 10.349, X2: 7.878, Rate: 0.020476014},
		{X1: 4.063, X2: 8.220, Rate: 0.009821433},
		{X1: 4.897, X2: 10.354, Rate: 0.012133934},
		{X1: 5.331, X2: 3.599, Rate: 0.012740631},
		{X1: 8.332, X2: 3.829, Rate: 0.017745879},
		{X1: 6.401, X2: 5.351, Rate: 0.014132819},
		{X1: 3.305, X2: 6.796, Rate: 0.008593754},
		{X1: 6.411, X2: 13.135, Rate: 0.01456072},
	}
}

// synthetic builds a set whose observed rates equal the model's predictions.
func synthetic(model kinetics.Model, params []float64) kinetics.ObservationSet {
	set := matlabSet()
	for i := range set {
		set[i].Rate = model.Predict(params, set[i])
	}
	return set
}

func TestEvaluatePerfectFit(t *testing.T) {
	cases := []struct {
		model  kinetics.Model
		params []float64
	}{
		{kinetics.HougenWatson{}, []float64{0.02, 6, 16}},
		{kinetics.MarsVanKrevelen{}, []float64{0.1, 15}},
	}
	for _, c := range cases {
		set := synthetic(c.model, c.params)
		ev, err := Evaluate(c.params, set, c.model)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.model.Name(), err)
		}
		if ev.Score != 0 {
			t.Fatalf("%s: expected score 0 for perfect fit, got %g", c.model.Name(), ev.Score)
		}
		for i, d := range ev.Deviations {
			if d != 0 {
				t.Fatalf("%s: expected zero deviation at %d, got %g", c.model.Name(), i, d)
			}
		}
	}
}

func TestEvaluateMatchesFormula(t *testing.T) {
	set := matlabSet()
	model := kinetics.HougenWatson{}
	params := []float64{0.034616542, 5, 14.80747964}

	ev, err := Evaluate(params, set, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ev.Predictions) != len(set) {
		t.Fatalf("expected %d predictions, got %d", len(set), len(ev.Predictions))
	}

	sum := 0.0
	for i, o := range set {
		d := 1 - model.Predict(params, o)/o.Rate
		sum += d * d
		if ev.Predictions[i] != model.Predict(params, o) {
			t.Fatalf("prediction %d not aligned with observation", i)
		}
	}
	want := math.Sqrt(sum / float64(len(set)))
	if math.Abs(ev.Score-want) > 1e-15 {
		t.Fatalf("expected score %g, got %g", want, ev.Score)
	}
	if ev.Score <= 0 {
		t.Fatalf("expected positive score for imperfect fit, got %g", ev.Score)
	}
}

func TestScoreMatchesEvaluate(t *testing.T) {
	set := matlabSet()
	for _, tc := range []struct {
		model  kinetics.Model
		params []float64
	}{
		{kinetics.HougenWatson{}, []float64{0.03, 5.5, 15}},
		{kinetics.MarsVanKrevelen{}, []float64{0.1, 15}},
	} {
		ev, err := Evaluate(tc.params, set, tc.model)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		score, err := Score(tc.params, set, tc.model)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Float64bits(score) != math.Float64bits(ev.Score) {
			t.Fatalf("%s: Score %v != Evaluate.Score %v", tc.model.Name(), score, ev.Score)
		}
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	set := matlabSet()
	model := kinetics.MarsVanKrevelen{}
	params := []float64{0.05, 30}

	a, err := Evaluate(params, set, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Evaluate(params, set, model)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Float64bits(a.Score) != math.Float64bits(b.Score) {
		t.Fatalf("scores differ: %v vs %v", a.Score, b.Score)
	}
	for i := range a.Predictions {
		if math.Float64bits(a.Predictions[i]) != math.Float64bits(b.Predictions[i]) {
			t.Fatalf("prediction %d differs: %v vs %v", i, a.Predictions[i], b.Predictions[i])
		}
	}
}

func TestZeroObservedRate(t *testing.T) {
	set := matlabSet()
	set[3].Rate = 0
	set[5].Rate = 0
	params := []float64{0.1, 15}

	_, err := Evaluate(params, set, kinetics.MarsVanKrevelen{})
	var domainErr *NumericDomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected NumericDomainError, got %v", err)
	}
	if domainErr.Index != 3 {
		t.Fatalf("expected first offending index 3, got %d", domainErr.Index)
	}

	_, err = Score(params, set, kinetics.MarsVanKrevelen{})
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected NumericDomainError from Score, got %v", err)
	}

	if err := CheckRates(set); !errors.As(err, &domainErr) || domainErr.Index != 3 {
		t.Fatalf("expected CheckRates to flag index 3, got %v", err)
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	if _, err := Evaluate([]float64{1, 2}, nil, kinetics.MarsVanKrevelen{}); !errors.Is(err, kinetics.ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
	if _, err := Score([]float64{1, 2}, matlabSet(), kinetics.HougenWatson{}); err == nil {
		t.Fatalf("expected parameter count error")
	}
	if _, err := Score([]float64{1, 2}, matlabSet(), nil); err == nil {
		t.Fatalf("expected nil model error")
	}
}
