package kinetics

import (
	"errors"
	"math"
	"testing"
)

var sampleSet = ObservationSet{
	{X1: 10.349, X2: 7.878, Rate: 0.020476014},
	{X1: 4.063, X2: 8.220, Rate: 0.009821433},
	{X1: 73.1, X2: 0.0994, Rate: 0.0607},
	{X1: 0, X2: 3.599, Rate: 0.012740631},
	{X1: 6.411, X2: 0, Rate: 0.01456072},
	{X1: 0, X2: 0, Rate: 0.01},
}

func TestNewModel(t *testing.T) {
	tests := []struct {
		name      string
		wantName  string
		wantCount int
		wantErr   bool
	}{
		{name: "hougen-watson", wantName: ModelHougenWatson, wantCount: 3},
		{name: "HW", wantName: ModelHougenWatson, wantCount: 3},
		{name: "mars-van-krevelen", wantName: ModelMarsVanKrevelen, wantCount: 2},
		{name: " mvk ", wantName: ModelMarsVanKrevelen, wantCount: 2},
		{name: "langmuir", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewModel(tt.name)
			if tt.wantErr {
				var unknown *UnknownModelError
				if !errors.As(err, &unknown) {
					t.Fatalf("expected UnknownModelError, got %v", err)
				}
				if unknown.Name != tt.name {
					t.Fatalf("expected error to carry name %q, got %q", tt.name, unknown.Name)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Name() != tt.wantName {
				t.Fatalf("expected %s, got %s", tt.wantName, m.Name())
			}
			if m.NumParams() != tt.wantCount || len(m.ParamNames()) != tt.wantCount {
				t.Fatalf("expected %d params, got %d (%v)", tt.wantCount, m.NumParams(), m.ParamNames())
			}
		})
	}
}

func TestModelNames(t *testing.T) {
	names := ModelNames()
	if len(names) != 2 {
		t.Fatalf("expected 2 models, got %v", names)
	}
	if names[0] != ModelHougenWatson || names[1] != ModelMarsVanKrevelen {
		t.Fatalf("unexpected model names %v", names)
	}
}

func TestHougenWatsonKnownPoint(t *testing.T) {
	params := []float64{0.034616542, 4.354892129, 14.80747964}
	got := HougenWatson{}.Predict(params, Observation{X1: 10.349, X2: 7.878})

	sx2 := math.Sqrt(7.878)
	den := 1 + 4.354892129*10.349 + 14.80747964*sx2
	want := 0.034616542 * 4.354892129 * 14.80747964 * 10.349 * sx2 / (den * den)
	if math.Abs(got-want) > 1e-15 {
		t.Fatalf("expected %.12f, got %.12f", want, got)
	}
	if math.Abs(got-0.0084438827) > 1e-9 {
		t.Fatalf("expected ~0.0084438827, got %.12f", got)
	}
}

func TestHougenWatsonDenominatorAtLeastOne(t *testing.T) {
	paramSets := [][]float64{
		{0.005, 5, 14.80747964},
		{0.05, 7, 20},
		{0.02, 0, 0},
		{1, 1e-9, 1e3},
	}
	for _, p := range paramSets {
		for i, o := range sampleSet {
			den := 1 + p[1]*o.X1 + p[2]*math.Sqrt(o.X2)
			if den < 1 {
				t.Fatalf("params %v obs %d: denominator %g < 1", p, i, den)
			}
			r := HougenWatson{}.Predict(p, o)
			if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
				t.Fatalf("params %v obs %d: expected finite non-negative rate, got %g", p, i, r)
			}
		}
	}
}

func TestMarsVanKrevelenKnownPoint(t *testing.T) {
	kr, ko := 0.1, 15.0
	obs := Observation{X1: 73.1, X2: 0.0994}
	got := MarsVanKrevelen{}.Predict([]float64{kr, ko}, obs)

	if math.IsNaN(got) || math.IsInf(got, 0) || got <= 0 {
		t.Fatalf("expected finite positive rate, got %g", got)
	}
	limit := math.Min(kr*obs.X1, ko*math.Sqrt(obs.X2))
	if got > limit {
		t.Fatalf("expected rate <= %g, got %g", limit, got)
	}
	if math.Abs(got-2.871477830934973) > 1e-12 {
		t.Fatalf("expected ~2.8714778, got %.15f", got)
	}
}

func TestMarsVanKrevelenDegeneratePoint(t *testing.T) {
	params := [][]float64{{0.1, 15}, {1e-6, 1e-6}, {1000, 1000}, {0, 0}}
	for _, p := range params {
		got := MarsVanKrevelen{}.Predict(p, Observation{X1: 0, X2: 0})
		if got != 0 {
			t.Fatalf("params %v: expected exactly 0 at x1=x2=0, got %g", p, got)
		}
	}

	// zero rate constants with non-zero conditions also hit the zero-denominator guard
	if got := (MarsVanKrevelen{}).Predict([]float64{0, 0}, Observation{X1: 3, X2: 4}); got != 0 {
		t.Fatalf("expected 0 for zero rate constants, got %g", got)
	}
}

func TestBatchMatchesSinglePoint(t *testing.T) {
	cases := []struct {
		model  Model
		params []float64
	}{
		{HougenWatson{}, []float64{0.034616542, 5, 14.80747964}},
		{MarsVanKrevelen{}, []float64{0.1, 15}},
		{MarsVanKrevelen{}, []float64{1e-6, 1000}},
	}
	for _, c := range cases {
		batch := c.model.PredictBatch(c.params, sampleSet)
		if len(batch) != len(sampleSet) {
			t.Fatalf("%s: expected %d predictions, got %d", c.model.Name(), len(sampleSet), len(batch))
		}
		for i, o := range sampleSet {
			single := c.model.Predict(c.params, o)
			if math.Float64bits(single) != math.Float64bits(batch[i]) {
				t.Fatalf("%s point %d: batch %v != single %v", c.model.Name(), i, batch[i], single)
			}
		}
	}
}

func TestPredictIsDeterministic(t *testing.T) {
	for _, m := range []Model{HougenWatson{}, MarsVanKrevelen{}} {
		params := []float64{0.03, 6, 15}[:m.NumParams()]
		a := m.PredictBatch(params, sampleSet)
		b := m.PredictBatch(params, sampleSet)
		for i := range a {
			if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
				t.Fatalf("%s point %d: %v != %v", m.Name(), i, a[i], b[i])
			}
		}
	}
}
