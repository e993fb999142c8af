package emg

import "github.com/banshee-data/emg.report/internal/config"

// DetectorParamsFromTuning builds DetectorParams from a tuning config,
// falling back to the reference defaults for unset fields.
func DetectorParamsFromTuning(cfg *config.TuningConfig) DetectorParams {
	if cfg == nil {
		return DefaultDetectorParams()
	}
	return DetectorParams{
		DetectWindow:   cfg.GetDetectWindow(),
		BaselineWindow: cfg.GetBaselineWindow(),
		MeanMultiplier: cfg.GetMeanMultiplier(),
		MaxMultiplier:  cfg.GetMaxMultiplier(),
		Margin:         cfg.GetMargin(),
	}
}

// PipelineFromTuning builds a full pipeline from a tuning config.
func PipelineFromTuning(cfg *config.TuningConfig) Pipeline {
	if cfg == nil {
		return NewPipeline(DefaultDetectorParams(), DefaultCutoffHz)
	}
	return NewPipeline(DetectorParamsFromTuning(cfg), cfg.GetCutoffHz())
}
