package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/GoSim-25-26J-441/kinfit/internal/dataset"
	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
	"github.com/GoSim-25-26J-441/kinfit/internal/report"
)

// dataFlags selects the observation set
type dataFlags struct {
	dataset  string
	dataFile string
}

// load returns the selected set and a label for reports. A data file wins
// over a built-in selection; both fall back to the config.
func (f dataFlags) load(a *app) (kinetics.ObservationSet, string, error) {
	file := f.dataFile
	if file == "" && f.dataset == "" {
		file = a.cfg.DataFile
	}
	if file != "" {
		set, err := dataset.LoadFile(file)
		if err != nil {
			return nil, "", err
		}
		return set, file, nil
	}

	name := f.dataset
	if name == "" {
		name = a.cfg.Dataset
	}
	set, err := dataset.Load(name)
	if err != nil {
		return nil, "", err
	}
	return set, strings.ToLower(name), nil
}

func writeReport(w io.Writer, rep *report.Report, output string) error {
	switch output {
	case "json":
		return report.WriteJSON(w, rep)
	case "text", "":
		return report.WriteText(w, rep)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", output)
	}
}
