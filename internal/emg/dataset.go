package emg

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// LoadCSV reads one recording from a CSV file. Each row holds one
// sample value, optionally followed by a 0/1 ground-truth label. A
// non-numeric first row is treated as a header and skipped. The target
// is nil when the file carries no label column.
func LoadCSV(path string, period time.Duration) (Signal, []bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return Signal{}, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows with and without a label column may mix with a header

	rows, err := r.ReadAll()
	if err != nil {
		return Signal{}, nil, fmt.Errorf("read dataset %s: %w", filepath.Base(path), err)
	}

	var samples []float64
	var target []bool
	hasTarget := false

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}

		v, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}
			return Signal{}, nil, fmt.Errorf("dataset %s row %d: %w", filepath.Base(path), i+1, err)
		}
		samples = append(samples, v)

		if len(row) > 1 {
			label, err := strconv.Atoi(row[1])
			if err != nil || (label != 0 && label != 1) {
				return Signal{}, nil, fmt.Errorf("dataset %s row %d: label must be 0 or 1, got %q",
					filepath.Base(path), i+1, row[1])
			}
			hasTarget = true
			target = append(target, label == 1)
			// A label column appearing after unlabelled rows would leave
			// the target misaligned against the samples.
			if len(target) != len(samples) {
				return Signal{}, nil, fmt.Errorf("dataset %s row %d: label column must start on the first data row",
					filepath.Base(path), i+1)
			}
		} else if hasTarget {
			return Signal{}, nil, fmt.Errorf("dataset %s row %d: missing label column", filepath.Base(path), i+1)
		}
	}

	if !hasTarget {
		target = nil
	}

	return NewSignal(samples, period), target, nil
}

// DiscoverDatasets loads every *.csv under dir as a dataset. Files are
// ordered by name so dataset IDs are stable across runs.
func DiscoverDatasets(dir string, period time.Duration) ([]Dataset, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("discover datasets: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *.csv datasets under %s", dir)
	}
	sort.Strings(paths)

	datasets := make([]Dataset, 0, len(paths))
	for id, path := range paths {
		sig, target, err := LoadCSV(path, period)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, Dataset{
			ID:     id,
			Name:   filepath.Base(path),
			Raw:    sig,
			Target: target,
		})
	}

	return datasets, nil
}
