package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/emg.report/internal/emg"
	"github.com/banshee-data/emg.report/internal/monitoring"
)

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := NewDB(filepath.Join(t.TempDir(), "emg_test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestRecordRunAndResults(t *testing.T) {
	database := newTestDB(t)

	run := NewRun(`{"detect_window":100}`, 2)
	if err := database.RecordRun(run); err != nil {
		t.Fatalf("record run: %v", err)
	}

	evaluated := ResultRow{
		RunID:         run.ID,
		DatasetID:     0,
		Filename:      "emg_000.csv",
		Outcome:       "evaluated",
		Accuracy:      sql.NullFloat64{Float64: 0.96, Valid: true},
		Precision:     sql.NullFloat64{Float64: 1.0, Valid: true},
		Recall:        sql.NullFloat64{Float64: 0.8, Valid: true},
		F1:            sql.NullFloat64{Float64: 0.888, Valid: true},
		TN:            sql.NullInt64{Int64: 800, Valid: true},
		FP:            sql.NullInt64{Int64: 0, Valid: true},
		FN:            sql.NullInt64{Int64: 40, Valid: true},
		TP:            sql.NullInt64{Int64: 160, Valid: true},
		ActiveSamples: 160,
		TotalSamples:  1000,
	}
	skipped := ResultRow{
		RunID:        run.ID,
		DatasetID:    1,
		Filename:     "emg_001.csv",
		Outcome:      "skipped",
		TotalSamples: 1000,
	}
	for _, row := range []ResultRow{evaluated, skipped} {
		if err := database.RecordResult(row); err != nil {
			t.Fatalf("record result %d: %v", row.DatasetID, err)
		}
	}

	got, err := database.ResultsForRun(run.ID)
	if err != nil {
		t.Fatalf("results for run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}

	if got[0].Accuracy != evaluated.Accuracy || got[0].TP != evaluated.TP {
		t.Errorf("evaluated row round-trip mismatch: %+v", got[0])
	}
	// Undefined metrics come back NULL, not zero.
	if got[1].Accuracy.Valid || got[1].TN.Valid {
		t.Errorf("skipped row should carry NULL metrics, got %+v", got[1])
	}
}

func TestRunsAndLatestRun(t *testing.T) {
	database := newTestDB(t)

	if _, err := database.LatestRun(); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("empty db latest run err = %v, want sql.ErrNoRows", err)
	}

	first := NewRun("", 1)
	second := NewRun("", 3)
	second.StartedAt = first.StartedAt.Add(time.Second)
	for _, run := range []Run{first, second} {
		if err := database.RecordRun(run); err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	latest, err := database.LatestRun()
	if err != nil {
		t.Fatalf("latest run: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("latest = %s, want %s", latest.ID, second.ID)
	}

	runs, err := database.Runs()
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID || runs[1].ID != first.ID {
		t.Errorf("runs not newest-first: %+v", runs)
	}
}

func TestResultRowFromEMG(t *testing.T) {
	t.Run("evaluated", func(t *testing.T) {
		res := emg.Result{
			DatasetID: 3,
			Name:      "emg_003.csv",
			Mask:      []bool{false, true, true, false},
			Eval: emg.Evaluation{
				Outcome:  emg.OutcomeEvaluated,
				Matrix:   &emg.ConfusionMatrix{TN: 2, FP: 0, FN: 0, TP: 2},
				Accuracy: emg.DefinedScore(1.0),
			},
		}

		row := ResultRowFromEMG("run-1", res)
		if row.Outcome != "evaluated" {
			t.Errorf("outcome = %q, want evaluated", row.Outcome)
		}
		if !row.Accuracy.Valid || row.Accuracy.Float64 != 1.0 {
			t.Errorf("accuracy = %+v, want 1.0", row.Accuracy)
		}
		if !row.TP.Valid || row.TP.Int64 != 2 {
			t.Errorf("tp = %+v, want 2", row.TP)
		}
		if row.ActiveSamples != 2 || row.TotalSamples != 4 {
			t.Errorf("sample counts = %d/%d, want 2/4", row.ActiveSamples, row.TotalSamples)
		}
	})

	t.Run("skipped", func(t *testing.T) {
		res := emg.Result{DatasetID: 0, Name: "emg_000.csv", Mask: []bool{false, false}}

		row := ResultRowFromEMG("run-1", res)
		if row.Outcome != "skipped" {
			t.Errorf("outcome = %q, want skipped", row.Outcome)
		}
		if row.Accuracy.Valid || row.TN.Valid {
			t.Errorf("skipped result should have NULL metrics: %+v", row)
		}
	})

	t.Run("failed", func(t *testing.T) {
		res := emg.Result{DatasetID: 1, Name: "bad.csv", Err: errors.New("empty signal")}

		row := ResultRowFromEMG("run-1", res)
		if row.Outcome != "failed" {
			t.Errorf("outcome = %q, want failed", row.Outcome)
		}
		if row.Error != "empty signal" {
			t.Errorf("error = %q", row.Error)
		}
	})
}

func TestResultToAPI(t *testing.T) {
	row := ResultRow{
		RunID:     "run-1",
		DatasetID: 0,
		Outcome:   "evaluated",
		Accuracy:  sql.NullFloat64{Float64: 0.5, Valid: true},
		TN:        sql.NullInt64{Int64: 1, Valid: true},
		TP:        sql.NullInt64{Int64: 1, Valid: true},
	}

	api := ResultToAPI(row)
	if api.Accuracy == nil || *api.Accuracy != 0.5 {
		t.Errorf("accuracy = %v, want 0.5", api.Accuracy)
	}
	if api.Precision != nil {
		t.Errorf("undefined precision should be nil, got %v", *api.Precision)
	}
	if api.Confusion == nil || api.Confusion[0] != 1 || api.Confusion[3] != 1 {
		t.Errorf("confusion = %v", api.Confusion)
	}

	// No matrix stored means no confusion block at all.
	api = ResultToAPI(ResultRow{Outcome: "skipped"})
	if api.Confusion != nil {
		t.Errorf("skipped row should have nil confusion, got %v", api.Confusion)
	}
}
