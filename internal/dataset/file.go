package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/kinfit/internal/kinetics"
)

// File is the YAML layout of an observation file
type File struct {
	Name         string                  `yaml:"name"`
	Observations kinetics.ObservationSet `yaml:"observations"`
}

// LoadFile reads and validates an observation set from a .yaml, .yml or
// .csv file
func LoadFile(path string) (kinetics.ObservationSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}

	var set kinetics.ObservationSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		set, err = ParseYAML(data)
	case ".csv":
		set, err = ParseCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported dataset file extension %q (use .yaml, .yml or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset file %s: %w", path, err)
	}
	return set, nil
}

// ParseYAML parses and validates a YAML observation file
func ParseYAML(data []byte) (kinetics.ObservationSet, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if f.Name != "" {
		for i := range f.Observations {
			if f.Observations[i].Source == "" {
				f.Observations[i].Source = f.Name
			}
		}
	}
	if err := f.Observations.Validate(); err != nil {
		return nil, err
	}
	return f.Observations, nil
}

// ParseCSV parses and validates CSV with a header row. x1, x2 and rate are
// required columns; temperature and source are optional. Column order is
// free and names are case-insensitive.
func ParseCSV(r io.Reader) (kinetics.ObservationSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err == io.EOF {
		return nil, kinetics.ErrEmptySet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"x1", "x2", "rate"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header missing column %q", required)
		}
	}

	set := make(kinetics.ObservationSet, 0)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		var obs kinetics.Observation
		fields := []struct {
			name string
			dst  *float64
		}{
			{"x1", &obs.X1},
			{"x2", &obs.X2},
			{"rate", &obs.Rate},
			{"temperature", &obs.Temperature},
		}
		for _, f := range fields {
			idx, ok := cols[f.name]
			if !ok || strings.TrimSpace(record[idx]) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s %q", line, f.name, record[idx])
			}
			*f.dst = v
		}
		if idx, ok := cols["source"]; ok {
			obs.Source = strings.TrimSpace(record[idx])
		}
		set = append(set, obs)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}
