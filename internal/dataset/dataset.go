// Package dataset provides the built-in experimental rate data and loads
// user observation sets from YAML or CSV files.
package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
)

// Built-in selections
const (
	MATLAB = "matlab"
	Table  = "table"
	All    = "all"
)

// ErrUnknownDataset is returned for a selection other than matlab, table or all
var ErrUnknownDataset = errors.New("unknown dataset")

var matlabConditions = [][2]float64{
	{10.349, 7.878}, {4.063, 8.220}, {4.897, 10.354}, {5.331, 3.599},
	{8.332, 3.829}, {6.401, 5.351}, {3.305, 6.796}, {6.411, 13.135},
}

var matlabRates = []float64{
	0.020476014, 0.009821433, 0.012133934, 0.012740631,
	0.017745879, 0.014132819, 0.008593754, 0.01456072,
}

var tableConditions = [][2]float64{
	{73.1, 0.0994}, {41.7, 0.0997}, {29.1, 0.0996}, {41.7, 0.0997},
	{41.7, 0.0997}, {41.7, 0.0997}, {41.7, 0.0997}, {41.7, 0.0997},
}

var tableRates = []float64{
	0.0607, 0.0752, 0.0685, 0.0470, 0.0529, 0.0578, 0.0664, 0.0710,
}

var tableTemperatures = []float64{783, 783, 783, 783, 813, 843, 883, 933}

// Names returns the built-in selections
func Names() []string {
	return []string{MATLAB, Table, All}
}

// Load returns a fresh copy of a built-in observation set. The selection is
// case-insensitive. ALL is MATLAB followed by TABLE; each point keeps its
// source tag.
func Load(selection string) (kinetics.ObservationSet, error) {
	switch strings.ToLower(strings.TrimSpace(selection)) {
	case MATLAB:
		return matlab(), nil
	case Table:
		return table(), nil
	case All:
		return append(matlab(), table()...), nil
	default:
		return nil, fmt.Errorf("%w: %q (use matlab, table or all)", ErrUnknownDataset, selection)
	}
}

// Describe returns a one-line description of a built-in selection
func Describe(selection string) string {
	switch strings.ToLower(selection) {
	case MATLAB:
		return "8 points at 783 K from the reference MATLAB study"
	case Table:
		return "8 points at 783-933 K from the tabulated study"
	case All:
		return "16 points: matlab followed by table"
	default:
		return ""
	}
}

func matlab() kinetics.ObservationSet {
	set := make(kinetics.ObservationSet, len(matlabConditions))
	for i, c := range matlabConditions {
		set[i] = kinetics.Observation{
			X1:          c[0],
			X2:          c[1],
			Rate:        matlabRates[i],
			Temperature: 783,
			Source:      MATLAB,
		}
	}
	return set
}

func table() kinetics.ObservationSet {
	set := make(kinetics.ObservationSet, len(tableConditions))
	for i, c := range tableConditions {
		set[i] = kinetics.Observation{
			X1:          c[0],
			X2:          c[1],
			Rate:        tableRates[i],
			Temperature: tableTemperatures[i],
			Source:      Table,
		}
	}
	return set
}
