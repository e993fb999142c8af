package emg

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/stat"
)

func TestLowPass_LengthAndPeriodPreserved(t *testing.T) {
	sig := burstSignal(1000, 100, 160, 400, 500)
	out := LowPass(sig, 2.0)

	if out.Len() != sig.Len() {
		t.Errorf("len = %d, want %d", out.Len(), sig.Len())
	}
	if out.Period != sig.Period {
		t.Errorf("period = %v, want %v", out.Period, sig.Period)
	}
}

func TestLowPass_InputUntouched(t *testing.T) {
	sig := burstSignal(500, 100, 160, 200, 250)
	before := append([]float64(nil), sig.Samples...)

	LowPass(sig, 2.0)

	for i := range before {
		if sig.Samples[i] != before[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
}

func TestLowPass_ConstantPassthrough(t *testing.T) {
	sig := constantSignal(200, 42)
	out := LowPass(sig, 2.0)

	for i, v := range out.Samples {
		if v != 42 {
			t.Fatalf("constant signal changed at %d: %v", i, v)
		}
	}
}

func TestLowPass_AttenuatesHighFrequency(t *testing.T) {
	// An alternating signal sits at Nyquist; a low cutoff must shrink
	// its variance substantially.
	samples := make([]float64, 1000)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 110
		} else {
			samples[i] = 90
		}
	}
	sig := NewSignal(samples, 8*time.Millisecond)

	out := LowPass(sig, 0.5)

	inVar := stat.Variance(sig.Samples, nil)
	outVar := stat.Variance(out.Samples, nil)
	if outVar >= inVar/10 {
		t.Errorf("variance %v not attenuated from %v", outVar, inVar)
	}
}

func TestLowPass_InvalidCutoffCopies(t *testing.T) {
	sig := burstSignal(300, 100, 160, 100, 150)

	for _, cutoff := range []float64{0, -1, 62.5, 1000} {
		out := LowPass(sig, cutoff)
		for i := range sig.Samples {
			if out.Samples[i] != sig.Samples[i] {
				t.Fatalf("cutoff=%v: expected verbatim copy, differs at %d", cutoff, i)
			}
		}
		// Still an independent copy, not an alias.
		out.Samples[0] = math.Inf(1)
		if sig.Samples[0] == out.Samples[0] {
			t.Fatalf("cutoff=%v: output aliases input", cutoff)
		}
	}
}

func TestLowPass_EmptySignal(t *testing.T) {
	out := LowPass(Signal{Period: 8 * time.Millisecond}, 0.1)
	if out.Len() != 0 {
		t.Errorf("len = %d, want 0", out.Len())
	}
}
