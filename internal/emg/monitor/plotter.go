// Package monitor renders analysis results: per-dataset PNG time
// series via gonum/plot and an HTML batch report via go-echarts.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/emg.report/internal/emg"
)

// TracePlotter writes one PNG per dataset showing the filtered trace
// with the detected activity regions overlaid.
type TracePlotter struct {
	outputDir string
}

// NewTracePlotter creates the output directory and returns a plotter
// writing into it.
func NewTracePlotter(outputDir string) (*TracePlotter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &TracePlotter{outputDir: outputDir}, nil
}

// OutputDir returns the directory plots are written to.
func (tp *TracePlotter) OutputDir() string { return tp.outputDir }

// PlotResult renders one dataset's trace and mask. Failed datasets are
// skipped (nothing to draw). Returns the written file path.
func (tp *TracePlotter) PlotResult(res emg.Result) (string, error) {
	if res.Err != nil || res.Filtered.Len() == 0 {
		return "", nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Filtered EMG + Detected Activity", res.Name)
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Amplitude"

	sigPts := make(plotter.XYs, res.Filtered.Len())
	for i, v := range res.Filtered.Samples {
		sigPts[i] = plotter.XY{X: float64(i), Y: v}
	}

	sigLine, err := plotter.NewLine(sigPts)
	if err != nil {
		return "", err
	}
	sigLine.Color = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	sigLine.Width = vg.Points(1)
	p.Add(sigLine)
	p.Legend.Add("filtered", sigLine)

	// Draw each active region as a flat segment at the trace maximum so
	// regions stand out without hiding the trace.
	top := maxSample(res.Filtered.Samples)
	for ri, region := range emg.ActiveRegions(res.Mask) {
		regionPts := plotter.XYs{
			{X: float64(region[0]), Y: top},
			{X: float64(region[1] - 1), Y: top},
		}
		regionLine, err := plotter.NewLine(regionPts)
		if err != nil {
			return "", err
		}
		regionLine.Color = color.RGBA{R: 220, G: 60, B: 60, A: 255}
		regionLine.Width = vg.Points(3)
		p.Add(regionLine)
		if ri == 0 {
			p.Legend.Add("activity", regionLine)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	outFile := filepath.Join(tp.outputDir, fmt.Sprintf("dataset_%03d_trace.png", res.DatasetID))
	if err := p.Save(14*vg.Inch, 6*vg.Inch, outFile); err != nil {
		return "", fmt.Errorf("save trace plot: %w", err)
	}

	return outFile, nil
}

// PlotBatch renders every result in the batch. Returns the number of
// plots generated.
func (tp *TracePlotter) PlotBatch(results []emg.Result) (int, error) {
	count := 0
	for _, res := range results {
		file, err := tp.PlotResult(res)
		if err != nil {
			return count, fmt.Errorf("dataset %d: %w", res.DatasetID, err)
		}
		if file != "" {
			count++
		}
	}
	return count, nil
}

func maxSample(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	top := samples[0]
	for _, v := range samples[1:] {
		if v > top {
			top = v
		}
	}
	return top
}

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakePlotOutputDir builds a timestamped output directory path for one
// run: <baseDir>/<label>/<timestamp>, or <baseDir>/run_<timestamp> when
// no label is given.
func MakePlotOutputDir(baseDir, label string) string {
	ts := FormatTimestamp(time.Now())
	if label != "" {
		return filepath.Join(baseDir, label, ts)
	}
	return filepath.Join(baseDir, "run_"+ts)
}
