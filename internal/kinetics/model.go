package kinetics

import (
	"sort"
	"strings"
)

// Model is a rate-law model. Implementations are stateless: the same
// parameters and observation always give the same predicted rate.
type Model interface {
	// Name returns the canonical model name.
	Name() string

	// ParamNames returns the parameter names in vector order.
	ParamNames() []string

	// NumParams returns the length of the parameter vector.
	NumParams() int

	// Predict returns the predicted rate for a single observation.
	Predict(params []float64, obs Observation) float64

	// PredictBatch returns one predicted rate per observation, in order.
	// Each element equals Predict for that observation.
	PredictBatch(params []float64, set ObservationSet) []float64
}

const (
	// ModelHougenWatson is the three-parameter Hougen-Watson model
	ModelHougenWatson = "hougen-watson"
	// ModelMarsVanKrevelen is the two-parameter Mars-van Krevelen redox model
	ModelMarsVanKrevelen = "mars-van-krevelen"
)

var modelAliases = map[string]string{
	"hougen-watson":     ModelHougenWatson,
	"hw":                ModelHougenWatson,
	"mars-van-krevelen": ModelMarsVanKrevelen,
	"mvk":               ModelMarsVanKrevelen,
}

// NewModel returns the rate-law model registered under name.
// Names are case-insensitive and accept the short aliases HW and MVK.
func NewModel(name string) (Model, error) {
	switch modelAliases[strings.ToLower(strings.TrimSpace(name))] {
	case ModelHougenWatson:
		return HougenWatson{}, nil
	case ModelMarsVanKrevelen:
		return MarsVanKrevelen{}, nil
	default:
		return nil, &UnknownModelError{Name: name}
	}
}

// ModelNames returns the canonical names of all registered models
func ModelNames() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 2)
	for _, canonical := range modelAliases {
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	sort.Strings(out)
	return out
}

// UnknownModelError indicates an unrecognized model selector
type UnknownModelError struct {
	Name string
}

func (e *UnknownModelError) Error() string {
	return "unknown rate-law model: " + e.Name
}

func predictBatch(m Model, params []float64, set ObservationSet) []float64 {
	out := make([]float64, len(set))
	for i, o := range set {
		out[i] = m.Predict(params, o)
	}
	return out
}
