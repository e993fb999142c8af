package emg

import (
	"encoding/json"
	"fmt"
)

// Outcome is the terminal state of an evaluation. There are exactly
// two: the masks were scored, or scoring was skipped because no ground
// truth was supplied.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeEvaluated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEvaluated:
		return "evaluated"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalJSON encodes the outcome as its string form.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// ConfusionMatrix tallies (true class, predicted class) pairs over the
// evaluated range. Rows are the true class, columns the predicted
// class, both ordered {inactive, active}. Counts are never mutated
// after Evaluate builds the matrix.
type ConfusionMatrix struct {
	TN int `json:"tn"` // true inactive, predicted inactive
	FP int `json:"fp"` // true inactive, predicted active
	FN int `json:"fn"` // true active, predicted inactive
	TP int `json:"tp"` // true active, predicted active
}

// Total returns the number of evaluated samples; always equal to the
// common prefix length the matrix was built over.
func (m ConfusionMatrix) Total() int { return m.TN + m.FP + m.FN + m.TP }

// Counts returns the matrix as [true class][predicted class] with
// inactive=0, active=1.
func (m ConfusionMatrix) Counts() [2][2]int {
	return [2][2]int{
		{m.TN, m.FP},
		{m.FN, m.TP},
	}
}

// Score is a metric value that may be undefined. A zero denominator or
// a degenerate confusion matrix yields an undefined score, which must
// stay distinguishable from a genuine 0.0: treating one as the other is
// a correctness bug, not a formatting detail.
type Score struct {
	Value   float64
	Defined bool
}

// DefinedScore returns a defined score holding v.
func DefinedScore(v float64) Score { return Score{Value: v, Defined: true} }

// UndefinedScore returns the undefined score.
func UndefinedScore() Score { return Score{} }

func (s Score) String() string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", s.Value)
}

// MarshalJSON encodes an undefined score as null, never as a number.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON decodes null back to the undefined score.
func (s *Score) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Score{}
		return nil
	}
	s.Defined = true
	return json.Unmarshal(data, &s.Value)
}

// Evaluation is the scoring of an activity mask against ground truth.
// When Outcome is OutcomeSkipped all other fields are zero: no matrix
// and no metrics, rather than defaults that could pass for real scores.
type Evaluation struct {
	Outcome   Outcome          `json:"outcome"`
	Matrix    *ConfusionMatrix `json:"confusion_matrix,omitempty"`
	Accuracy  Score            `json:"accuracy"`
	Precision Score            `json:"precision"`
	Recall    Score            `json:"recall"`
	F1        Score            `json:"f1"`
}

// Evaluate scores an activity mask against an optional ground truth
// mask. A nil target is the normal no-labels case and yields
// OutcomeSkipped with no error. With a target, both masks are truncated
// to their common prefix; an empty prefix is an InputShapeError.
//
// Accuracy is always computed when evaluated. Precision, recall and F1
// are undefined when only one class was observed across both masks or
// when the respective denominator is zero; otherwise each is computed
// independently.
func Evaluate(activity ActivityMask, target []bool) (Evaluation, error) {
	if target == nil {
		return Evaluation{Outcome: OutcomeSkipped}, nil
	}

	length := len(activity)
	if len(target) < length {
		length = len(target)
	}
	if length == 0 {
		return Evaluation{}, errNoOverlap("evaluate")
	}

	var m ConfusionMatrix
	for i := 0; i < length; i++ {
		switch {
		case target[i] && activity[i]:
			m.TP++
		case target[i] && !activity[i]:
			m.FN++
		case !target[i] && activity[i]:
			m.FP++
		default:
			m.TN++
		}
	}

	ev := Evaluation{
		Outcome:  OutcomeEvaluated,
		Matrix:   &m,
		Accuracy: DefinedScore(float64(m.TN+m.TP) / float64(length)),
	}

	// With only one class observed across both masks the matrix is not a
	// genuine 2x2 tally and the class-conditional metrics say nothing.
	// When both classes were observed, each metric stands or falls on
	// its own denominator: recall 0.0 over a target with real activity
	// is a measurement, not a gap.
	observedActive := (m.TP + m.FN + m.FP) > 0
	observedInactive := (m.TN + m.FP + m.FN) > 0
	if !observedActive || !observedInactive {
		return ev, nil
	}

	if m.TP+m.FP > 0 {
		ev.Precision = DefinedScore(float64(m.TP) / float64(m.TP+m.FP))
	}
	if m.TP+m.FN > 0 {
		ev.Recall = DefinedScore(float64(m.TP) / float64(m.TP+m.FN))
	}
	if ev.Precision.Defined && ev.Recall.Defined && ev.Precision.Value+ev.Recall.Value > 0 {
		p, r := ev.Precision.Value, ev.Recall.Value
		ev.F1 = DefinedScore(2 * p * r / (p + r))
	}

	return ev, nil
}
