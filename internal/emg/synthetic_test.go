package emg

import "testing"

func TestGenerateSynthetic_Shape(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	samples, truth := GenerateSynthetic(cfg)

	if len(samples) != cfg.Samples || len(truth) != cfg.Samples {
		t.Fatalf("lengths = %d/%d, want %d", len(samples), len(truth), cfg.Samples)
	}

	if got, want := CountActive(truth), cfg.Bursts*cfg.BurstLen; got != want {
		t.Errorf("active samples = %d, want %d", got, want)
	}
	if got := len(ActiveRegions(truth)); got != cfg.Bursts {
		t.Errorf("burst regions = %d, want %d", got, cfg.Bursts)
	}
}

func TestGenerateSynthetic_Deterministic(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	a, _ := GenerateSynthetic(cfg)
	b, _ := GenerateSynthetic(cfg)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs across runs with the same seed", i)
		}
	}
}

func TestGenerateSynthetic_BurstsElevated(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	samples, truth := GenerateSynthetic(cfg)

	var restSum, burstSum float64
	var restN, burstN int
	for i, v := range samples {
		if truth[i] {
			burstSum += v
			burstN++
		} else {
			restSum += v
			restN++
		}
	}

	restMean := restSum / float64(restN)
	burstMean := burstSum / float64(burstN)
	if burstMean < restMean*1.3 {
		t.Errorf("burst mean %.1f not clearly above rest mean %.1f", burstMean, restMean)
	}
}

func TestGenerateSynthetic_NoBursts(t *testing.T) {
	cfg := DefaultSyntheticConfig()
	cfg.Bursts = 0
	_, truth := GenerateSynthetic(cfg)
	if CountActive(truth) != 0 {
		t.Error("expected no active samples without bursts")
	}
}
