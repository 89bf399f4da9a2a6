package fit

import (
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/kinfit/pkg/utils"
)

// FitComparison compares two fits of the same observation set
type FitComparison struct {
	ModelA          string
	ModelB          string
	ScoreDiff       float64 // B - A
	Improvement     bool    // true if B fits better than A
	ParamCountDiff  int     // B - A
	MeanAbsDevDiff  float64 // B - A, mean |1 - predicted/observed|
	MaxAbsDevDiff   float64 // B - A
	IterationsDiff  int
	EvaluationsDiff int
}

// Compare compares two results; both must cover the same number of points
func Compare(a, b *Result) (*FitComparison, error) {
	if a == nil {
		return nil, fmt.Errorf("result a is nil")
	}
	if b == nil {
		return nil, fmt.Errorf("result b is nil")
	}
	if len(a.Predictions) != len(b.Predictions) {
		return nil, fmt.Errorf("results cover different observation sets (%d vs %d points)", len(a.Predictions), len(b.Predictions))
	}

	return &FitComparison{
		ModelA:          a.Model,
		ModelB:          b.Model,
		ScoreDiff:       b.Score - a.Score,
		Improvement:     b.Score < a.Score,
		ParamCountDiff:  len(b.Params) - len(a.Params),
		MeanAbsDevDiff:  utils.MeanAbs(b.Deviations) - utils.MeanAbs(a.Deviations),
		MaxAbsDevDiff:   utils.MaxAbs(b.Deviations) - utils.MaxAbs(a.Deviations),
		IterationsDiff:  b.Iterations - a.Iterations,
		EvaluationsDiff: b.Evaluations - a.Evaluations,
	}, nil
}

// Rank returns the results ordered from best (lowest score) to worst.
// Ties keep their input order; nil results are dropped.
func Rank(results []*Result) []*Result {
	ranked := make([]*Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	return ranked
}
