package emg

import "math/rand"

// SyntheticConfig shapes a generated EMG trace: a resting baseline with
// gaussian noise, interrupted by fixed-length contraction bursts at a
// higher level. The matching ground-truth mask marks the burst samples.
type SyntheticConfig struct {
	Samples     int
	Baseline    float64
	Noise       float64
	Bursts      int
	BurstLen    int
	BurstFactor float64
	Seed        int64
}

// DefaultSyntheticConfig returns a trace shape that the reference
// detector parameters resolve cleanly.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Samples:     4000,
		Baseline:    100,
		Noise:       2,
		Bursts:      3,
		BurstLen:    150,
		BurstFactor: 1.6,
		Seed:        1,
	}
}

// GenerateSynthetic produces a raw trace and its ground-truth mask.
// Bursts are spaced evenly through the middle of the trace, clear of
// the detector's boundary margins.
func GenerateSynthetic(cfg SyntheticConfig) ([]float64, []bool) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	samples := make([]float64, cfg.Samples)
	truth := make([]bool, cfg.Samples)

	for i := range samples {
		samples[i] = cfg.Baseline + rng.NormFloat64()*cfg.Noise
	}

	if cfg.Bursts <= 0 || cfg.BurstLen <= 0 || cfg.Samples == 0 {
		return samples, truth
	}

	spacing := cfg.Samples / (cfg.Bursts + 1)
	for b := 1; b <= cfg.Bursts; b++ {
		start := b*spacing - cfg.BurstLen/2
		for i := start; i < start+cfg.BurstLen; i++ {
			if i < 0 || i >= cfg.Samples {
				continue
			}
			samples[i] = cfg.Baseline*cfg.BurstFactor + rng.NormFloat64()*cfg.Noise
			truth[i] = true
		}
	}

	return samples, truth
}
