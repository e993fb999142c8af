package emg

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/emg.report/internal/monitoring"
)

// Dataset is one recording to analyse: a raw trace plus an optional
// ground-truth mask. IDs are small integers assigned by discovery
// order; results are keyed by them rather than by ad hoc string names.
type Dataset struct {
	ID     int
	Name   string
	Raw    Signal
	Target []bool
}

// Result bundles everything a pipeline run produces for one dataset.
// Err is set when the dataset failed (for example an InputShapeError);
// the rest of the batch is unaffected.
type Result struct {
	DatasetID int
	Name      string
	Filtered  Signal
	Mask      ActivityMask
	Eval      Evaluation
	Err       error
}

// Pipeline runs the full preprocess, detect, evaluate sequence for a
// single dataset. A Pipeline is stateless and safe for concurrent use;
// every dataset's signal, mask and evaluation are owned exclusively by
// its Run call.
type Pipeline struct {
	Params   DetectorParams
	CutoffHz float64
}

// NewPipeline builds a pipeline with the given detector parameters and
// low-pass cutoff. A non-positive cutoff falls back to DefaultCutoffHz.
func NewPipeline(params DetectorParams, cutoffHz float64) Pipeline {
	if cutoffHz <= 0 {
		cutoffHz = DefaultCutoffHz
	}
	return Pipeline{Params: params, CutoffHz: cutoffHz}
}

// Run processes one dataset start to finish. Failures are recorded on
// the result, not returned; callers iterating a batch read Result.Err.
func (p Pipeline) Run(ds Dataset) Result {
	res := Result{DatasetID: ds.ID, Name: ds.Name}

	res.Filtered = LowPass(ds.Raw, p.CutoffHz)

	mask, err := NewDetector(p.Params).Detect(res.Filtered)
	if err != nil {
		monitoring.Logf("dataset %d (%s): detection failed: %v", ds.ID, ds.Name, err)
		res.Err = err
		return res
	}
	res.Mask = mask

	eval, err := Evaluate(mask, ds.Target)
	if err != nil {
		res.Err = err
		return res
	}
	res.Eval = eval

	return res
}

// RunBatch processes datasets on a pool of workers. Datasets are
// independent, so there is no cross-worker coordination beyond the job
// feed; each result slot is written by exactly one worker. Results come
// back in dataset order. Cancelling the context stops dispatch; already
// started datasets finish.
func RunBatch(ctx context.Context, pipe Pipeline, datasets []Dataset, workers int) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(datasets) {
		workers = len(datasets)
	}

	results := make([]Result, len(datasets))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = pipe.Run(datasets[idx])
			}
		}()
	}

	dispatched := 0
dispatch:
	for idx := range datasets {
		if ctx.Err() != nil {
			break
		}
		select {
		case jobs <- idx:
			dispatched++
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if dispatched < len(datasets) {
		monitoring.Logf("batch cancelled after %d of %d datasets", dispatched, len(datasets))
	}

	// Dispatch is in index order, so everything past the last
	// dispatched dataset was never started; mark it cancelled.
	for idx := dispatched; idx < len(datasets); idx++ {
		results[idx] = Result{
			DatasetID: datasets[idx].ID,
			Name:      datasets[idx].Name,
			Err:       ctx.Err(),
		}
	}

	return results
}

// BatchSummary aggregates a batch run: how many datasets were scored,
// skipped for lack of ground truth, or failed, and the mean accuracy
// over the scored ones. MeanAccuracy is undefined when nothing was
// scored, never a silent zero.
type BatchSummary struct {
	Datasets     int   `json:"datasets"`
	Evaluated    int   `json:"evaluated"`
	Skipped      int   `json:"skipped"`
	Failed       int   `json:"failed"`
	MeanAccuracy Score `json:"mean_accuracy"`
}

// Summarise folds per-dataset results into a BatchSummary.
func Summarise(results []Result) BatchSummary {
	summary := BatchSummary{Datasets: len(results)}

	var accuracies []float64
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Eval.Outcome == OutcomeEvaluated:
			summary.Evaluated++
			if r.Eval.Accuracy.Defined {
				accuracies = append(accuracies, r.Eval.Accuracy.Value)
			}
		default:
			summary.Skipped++
		}
	}

	if len(accuracies) > 0 {
		summary.MeanAccuracy = DefinedScore(stat.Mean(accuracies, nil))
	}

	return summary
}
