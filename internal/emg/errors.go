package emg

import "fmt"

// InputShapeError reports input whose shape makes the requested
// computation impossible: an empty signal handed to the detector, or an
// activity/target pair with no common indices handed to the evaluator.
// It is fatal for the dataset that produced it, never for the whole
// batch; RunBatch records it on the dataset's result and moves on.
type InputShapeError struct {
	Op     string
	Detail string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func errEmptySignal(op string) error {
	return &InputShapeError{Op: op, Detail: "signal has no samples"}
}

func errNoOverlap(op string) error {
	return &InputShapeError{Op: op, Detail: "activity and target masks share no indices"}
}
