package emg

import "math"

// DefaultCutoffHz is the low-pass cutoff of the reference
// configuration (0.1 Hz at 125 Hz sampling).
const DefaultCutoffHz = 0.1

// LowPass smooths a raw signal with a first-order IIR low-pass filter
// (RC form) at the given cutoff frequency. The input is untouched and
// the output has the same length and period. A cutoff outside
// (0, Nyquist) disables filtering and returns a copy of the input.
func LowPass(sig Signal, cutoffHz float64) Signal {
	out := Signal{
		Samples: make([]float64, sig.Len()),
		Period:  sig.Period,
	}
	if sig.Len() == 0 {
		return out
	}

	rate := sig.Rate()
	if cutoffHz <= 0 || cutoffHz >= rate/2 {
		copy(out.Samples, sig.Samples)
		return out
	}

	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / rate
	alpha := dt / (rc + dt)

	prev := sig.Samples[0]
	out.Samples[0] = prev
	for i := 1; i < sig.Len(); i++ {
		prev += alpha * (sig.Samples[i] - prev)
		out.Samples[i] = prev
	}

	return out
}
