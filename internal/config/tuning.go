// Package config loads detector tuning parameters from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig holds detector and preprocessing tuning parameters. All
// fields are pointers so a partial JSON file only overrides what it
// names; the Get* accessors supply defaults for the rest.
type TuningConfig struct {
	// Detector params
	DetectWindow   *int     `json:"detect_window,omitempty"`
	BaselineWindow *int     `json:"baseline_window,omitempty"`
	MeanMultiplier *float64 `json:"mean_multiplier,omitempty"`
	MaxMultiplier  *float64 `json:"max_multiplier,omitempty"`
	Margin         *int     `json:"margin,omitempty"`

	// Preprocessing params
	CutoffHz     *float64 `json:"cutoff_hz,omitempty"`
	SampleRateHz *float64 `json:"sample_rate_hz,omitempty"`

	// Batch params
	Workers *int `json:"workers,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must
// have a .json extension and the file must be under 1MB. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that set configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.DetectWindow != nil && *c.DetectWindow < 1 {
		return fmt.Errorf("detect_window must be at least 1, got %d", *c.DetectWindow)
	}
	if c.BaselineWindow != nil && *c.BaselineWindow < 1 {
		return fmt.Errorf("baseline_window must be at least 1, got %d", *c.BaselineWindow)
	}
	if c.MeanMultiplier != nil && *c.MeanMultiplier <= 0 {
		return fmt.Errorf("mean_multiplier must be positive, got %f", *c.MeanMultiplier)
	}
	if c.MaxMultiplier != nil && *c.MaxMultiplier <= 0 {
		return fmt.Errorf("max_multiplier must be positive, got %f", *c.MaxMultiplier)
	}
	if c.Margin != nil && *c.Margin < 0 {
		return fmt.Errorf("margin must be non-negative, got %d", *c.Margin)
	}
	if c.SampleRateHz != nil && *c.SampleRateHz <= 0 {
		return fmt.Errorf("sample_rate_hz must be positive, got %f", *c.SampleRateHz)
	}
	if c.CutoffHz != nil && *c.CutoffHz <= 0 {
		return fmt.Errorf("cutoff_hz must be positive, got %f", *c.CutoffHz)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	return nil
}

// GetDetectWindow returns the detect_window value or the default.
func (c *TuningConfig) GetDetectWindow() int {
	if c.DetectWindow == nil {
		return 100
	}
	return *c.DetectWindow
}

// GetBaselineWindow returns the baseline_window value or the default.
func (c *TuningConfig) GetBaselineWindow() int {
	if c.BaselineWindow == nil {
		return 500
	}
	return *c.BaselineWindow
}

// GetMeanMultiplier returns the mean_multiplier value or the default.
func (c *TuningConfig) GetMeanMultiplier() float64 {
	if c.MeanMultiplier == nil {
		return 1.05
	}
	return *c.MeanMultiplier
}

// GetMaxMultiplier returns the max_multiplier value or the default.
func (c *TuningConfig) GetMaxMultiplier() float64 {
	if c.MaxMultiplier == nil {
		return 1.2
	}
	return *c.MaxMultiplier
}

// GetMargin returns the margin value or the default.
func (c *TuningConfig) GetMargin() int {
	if c.Margin == nil {
		return 10
	}
	return *c.Margin
}

// GetCutoffHz returns the cutoff_hz value or the default.
func (c *TuningConfig) GetCutoffHz() float64 {
	if c.CutoffHz == nil {
		return 0.1
	}
	return *c.CutoffHz
}

// GetSampleRateHz returns the sample_rate_hz value or the default.
func (c *TuningConfig) GetSampleRateHz() float64 {
	if c.SampleRateHz == nil {
		return 125.0
	}
	return *c.SampleRateHz
}

// GetWorkers returns the workers value or the default.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 4
	}
	return *c.Workers
}
