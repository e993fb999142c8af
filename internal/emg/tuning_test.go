package emg

import (
	"testing"

	"github.com/banshee-data/emg.report/internal/config"
)

func TestDetectorParamsFromTuning(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		if got := DetectorParamsFromTuning(nil); got != DefaultDetectorParams() {
			t.Errorf("params = %+v, want defaults", got)
		}
	})

	t.Run("set fields override", func(t *testing.T) {
		window := 60
		mult := 1.5
		cfg := &config.TuningConfig{DetectWindow: &window, MaxMultiplier: &mult}

		got := DetectorParamsFromTuning(cfg)
		if got.DetectWindow != 60 {
			t.Errorf("detect window = %d, want 60", got.DetectWindow)
		}
		if got.MaxMultiplier != 1.5 {
			t.Errorf("max multiplier = %v, want 1.5", got.MaxMultiplier)
		}
		if got.BaselineWindow != DefaultBaselineWindow {
			t.Errorf("baseline window = %d, want default %d", got.BaselineWindow, DefaultBaselineWindow)
		}
	})
}

func TestPipelineFromTuning(t *testing.T) {
	cutoff := 3.0
	cfg := &config.TuningConfig{CutoffHz: &cutoff}

	pipe := PipelineFromTuning(cfg)
	if pipe.CutoffHz != 3.0 {
		t.Errorf("cutoff = %v, want 3", pipe.CutoffHz)
	}
	if pipe.Params != DefaultDetectorParams() {
		t.Errorf("params = %+v, want defaults", pipe.Params)
	}

	nilPipe := PipelineFromTuning(nil)
	if nilPipe.CutoffHz != DefaultCutoffHz {
		t.Errorf("nil config cutoff = %v, want %v", nilPipe.CutoffHz, DefaultCutoffHz)
	}
}
