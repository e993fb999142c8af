package emg

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Default detector parameters for the reference configuration (125 Hz
// sampling). Tune per deployment via the tuning config.
const (
	DefaultDetectWindow   = 100
	DefaultBaselineWindow = 500
	DefaultMeanMultiplier = 1.05
	DefaultMaxMultiplier  = 1.2

	// DefaultMargin keeps both windows away from the signal edges to
	// avoid boundary artefacts. It is a tuning constant, not derived
	// from a signal property; re-validate before changing sample rates.
	DefaultMargin = 10
)

// DetectorParams configures the sliding-window activity detector.
//
// DetectWindow is the narrow window whose mean and max are compared
// against the baseline. BaselineWindow is the wide window whose median
// forms the adaptive baseline. A detection fires when the window mean
// exceeds baseline*MeanMultiplier AND the window max exceeds
// baseline*MaxMultiplier; requiring both rejects low broadband noise as
// well as isolated spikes.
type DetectorParams struct {
	DetectWindow   int     `json:"detect_window"`
	BaselineWindow int     `json:"baseline_window"`
	MeanMultiplier float64 `json:"mean_multiplier"`
	MaxMultiplier  float64 `json:"max_multiplier"`
	Margin         int     `json:"margin"`
}

// DefaultDetectorParams returns the reference configuration.
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{
		DetectWindow:   DefaultDetectWindow,
		BaselineWindow: DefaultBaselineWindow,
		MeanMultiplier: DefaultMeanMultiplier,
		MaxMultiplier:  DefaultMaxMultiplier,
		Margin:         DefaultMargin,
	}
}

// sanitised clamps malformed parameters instead of rejecting them:
// window sizes below one sample are raised to one, a negative margin
// becomes zero, and non-positive multipliers fall back to the defaults.
// Windows wider than the signal are handled by the per-position window
// clipping in Detect.
func (p DetectorParams) sanitised() DetectorParams {
	if p.DetectWindow < 1 {
		p.DetectWindow = 1
	}
	if p.BaselineWindow < 1 {
		p.BaselineWindow = 1
	}
	if p.Margin < 0 {
		p.Margin = 0
	}
	if p.MeanMultiplier <= 0 {
		p.MeanMultiplier = DefaultMeanMultiplier
	}
	if p.MaxMultiplier <= 0 {
		p.MaxMultiplier = DefaultMaxMultiplier
	}
	return p
}

// Detector classifies each sample of a smoothed signal as active or
// inactive contraction by comparing local window statistics against a
// median baseline. Detect is a pure function of the signal and the
// parameters; a Detector holds no state between calls.
type Detector struct {
	params DetectorParams
}

// NewDetector creates a detector, clamping malformed parameters per
// DetectorParams.sanitised.
func NewDetector(params DetectorParams) *Detector {
	return &Detector{params: params.sanitised()}
}

// Params returns the (sanitised) parameters the detector runs with.
func (d *Detector) Params() DetectorParams { return d.params }

// Detect produces the activity mask for a smoothed signal. The mask
// always has the same length as the signal. Signals too short to fit
// the baseline window plus margins yield an all-inactive mask rather
// than an error; only an empty signal is an InputShapeError.
func (d *Detector) Detect(sig Signal) (ActivityMask, error) {
	n := sig.Len()
	if n == 0 {
		return nil, errEmptySignal("detect")
	}

	p := d.params
	mask := make(ActivityMask, n)

	halfBase := p.BaselineWindow / 2
	halfDetect := p.DetectWindow / 2

	lo := halfBase + p.Margin
	hi := n - 1 - halfBase - p.Margin
	// Empty or inverted range: detection is impossible over a signal
	// this short, return the zero mask.
	if lo > hi {
		return mask, nil
	}

	scratch := make([]float64, 0, p.BaselineWindow+1)

	for i := lo; i <= hi; i++ {
		baseStart, baseEnd := clipWindow(i-halfBase, i+halfBase, n)
		baseline := median(sig.Samples[baseStart:baseEnd+1], scratch)

		detStart, detEnd := clipWindow(i-halfDetect, i+halfDetect, n)
		window := sig.Samples[detStart : detEnd+1]
		windowMean := stat.Mean(window, nil)
		windowMax := floats.Max(window)

		if windowMean > baseline*p.MeanMultiplier && windowMax > baseline*p.MaxMultiplier {
			// The whole detection window is marked, not just i.
			// Overlapping windows from neighbouring positions widen the
			// reported region beyond the underlying burst; that bleed is
			// inherent to the heuristic and deliberately kept.
			mask.markActive(detStart, detEnd+1)
		}
	}

	return mask, nil
}

// clipWindow clips the inclusive index range [a, b] to [0, n-1].
func clipWindow(a, b, n int) (int, int) {
	if a < 0 {
		a = 0
	}
	if b > n-1 {
		b = n - 1
	}
	return a, b
}

// median returns the median of values, averaging the two central
// elements for even lengths. scratch is reused across calls to avoid
// per-window allocation; values is left untouched.
func median(values []float64, scratch []float64) float64 {
	scratch = append(scratch[:0], values...)
	sort.Float64s(scratch)
	mid := len(scratch) / 2
	if len(scratch)%2 == 1 {
		return scratch[mid]
	}
	return (scratch[mid-1] + scratch[mid]) / 2
}
