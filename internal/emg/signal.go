// Package emg implements sample-level muscle activity detection for
// electromyography traces. A recorded trace is low-pass filtered, swept
// with a pair of nested sliding windows to classify each sample as
// active or inactive contraction, and optionally scored against a
// ground truth labelling.
package emg

import (
	"time"

	"github.com/banshee-data/emg.report/internal/units"
)

// DefaultSamplePeriod is the sample period of the reference recording
// hardware (125 Hz).
const DefaultSamplePeriod = 8 * time.Millisecond

// Signal is an ordered sequence of real-valued samples recorded at a
// fixed sample period. Treat a Signal as immutable once built; the
// detector and evaluator never modify one.
type Signal struct {
	Samples []float64
	Period  time.Duration
}

// NewSignal wraps samples in a Signal. A non-positive period falls back
// to DefaultSamplePeriod.
func NewSignal(samples []float64, period time.Duration) Signal {
	if period <= 0 {
		period = DefaultSamplePeriod
	}
	return Signal{Samples: samples, Period: period}
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Samples) }

// Duration returns the wall-clock span of the recording.
func (s Signal) Duration() time.Duration {
	return units.DurationForSamples(len(s.Samples), s.Period)
}

// Rate returns the sampling rate in Hz.
func (s Signal) Rate() float64 { return units.RateForPeriod(s.Period) }

// ActivityMask is a per-sample binary classification: true marks a
// sample as active muscle contraction. A mask always has the same
// length as the signal it was derived from.
type ActivityMask []bool

// markActive sets the half-open range [a, b) active, clipped to the
// mask bounds. Writes are OR-accumulated: overlapping windows may hit
// the same sample repeatedly and a sample once marked active is never
// reset.
func (m ActivityMask) markActive(a, b int) {
	if a < 0 {
		a = 0
	}
	if b > len(m) {
		b = len(m)
	}
	for i := a; i < b; i++ {
		m[i] = true
	}
}

// CountActive returns the number of active samples in the mask.
func CountActive(mask []bool) int {
	count := 0
	for _, v := range mask {
		if v {
			count++
		}
	}
	return count
}

// MaskAgreement returns the fraction of samples on which two masks
// agree, over their common prefix. Returns 0 for empty input.
func MaskAgreement(mask1, mask2 []bool) float64 {
	if len(mask1) == 0 || len(mask2) == 0 {
		return 0
	}

	minLen := len(mask1)
	if len(mask2) < minLen {
		minLen = len(mask2)
	}

	agreements := 0
	for i := 0; i < minLen; i++ {
		if mask1[i] == mask2[i] {
			agreements++
		}
	}

	return float64(agreements) / float64(minLen)
}

// ActiveRegions returns the half-open [start, end) index ranges of
// contiguous active runs in the mask, in order.
func ActiveRegions(mask []bool) [][2]int {
	var regions [][2]int
	start := -1
	for i, v := range mask {
		if v && start < 0 {
			start = i
		}
		if !v && start >= 0 {
			regions = append(regions, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		regions = append(regions, [2]int{start, len(mask)})
	}
	return regions
}
