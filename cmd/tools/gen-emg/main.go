// Command gen-emg generates synthetic EMG recordings as CSV datasets
// for testing the analysis pipeline.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/emg.report/internal/emg"
)

func main() {
	outDir := flag.String("o", "testdata", "output directory")
	count := flag.Int("n", 3, "number of datasets")
	samples := flag.Int("len", 4000, "samples per dataset")
	bursts := flag.Int("bursts", 3, "contraction bursts per dataset")
	labels := flag.Bool("labels", true, "include a ground-truth label column")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	cfg := emg.DefaultSyntheticConfig()
	cfg.Samples = *samples
	cfg.Bursts = *bursts

	for i := 0; i < *count; i++ {
		cfg.Seed = *seed + int64(i)
		trace, truth := emg.GenerateSynthetic(cfg)

		path := filepath.Join(*outDir, fmt.Sprintf("emg_%03d.csv", i))
		if err := writeCSV(path, trace, truth, *labels); err != nil {
			log.Fatalf("failed to write %s: %v", path, err)
		}
		log.Printf("✓ Created: %s (%d samples, %d bursts)", path, len(trace), *bursts)
	}
}

func writeCSV(path string, trace []float64, truth []bool, labels bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for i, v := range trace {
		row := []string{strconv.FormatFloat(v, 'f', 4, 64)}
		if labels {
			label := "0"
			if truth[i] {
				label = "1"
			}
			row = append(row, label)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
