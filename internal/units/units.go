// Package units provides shared conversions between sampling rates,
// sample periods and sample counts.
package units

import "time"

// DefaultSampleRateHz is the sampling rate of the reference recording
// hardware.
const DefaultSampleRateHz = 125.0

// IsValidRate checks that a sampling rate is usable (positive and
// representable as a sample period).
func IsValidRate(hz float64) bool {
	return hz > 0 && PeriodForRate(hz) > 0
}

// PeriodForRate converts a sampling rate in Hz to a sample period.
// Returns 0 for a non-positive rate.
func PeriodForRate(hz float64) time.Duration {
	if hz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / hz)
}

// RateForPeriod converts a sample period to a sampling rate in Hz.
// Returns 0 for a non-positive period.
func RateForPeriod(period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return float64(time.Second) / float64(period)
}

// DurationForSamples returns the wall-clock span of n samples at the
// given period.
func DurationForSamples(n int, period time.Duration) time.Duration {
	if n < 0 {
		return 0
	}
	return time.Duration(n) * period
}

// SamplesForDuration returns how many whole samples fit in d at the
// given period. Returns 0 for a non-positive period.
func SamplesForDuration(d, period time.Duration) int {
	if period <= 0 || d <= 0 {
		return 0
	}
	return int(d / period)
}
