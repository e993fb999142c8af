package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/emg.report/internal/emg"
)

// Run identifies one batch analysis invocation.
type Run struct {
	ID           string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	ConfigJSON   string    `json:"config_json,omitempty"`
	DatasetCount int       `json:"dataset_count"`
}

// NewRun creates a run record with a fresh identifier.
func NewRun(configJSON string, datasetCount int) Run {
	return Run{
		ID:           uuid.NewString(),
		StartedAt:    time.Now().UTC(),
		ConfigJSON:   configJSON,
		DatasetCount: datasetCount,
	}
}

// ResultRow is the persisted form of one dataset's result. Undefined
// metrics and absent confusion counts are NULL in the database, never
// zero; ResultAPI keeps the JSON shape just as explicit about missing
// values.
type ResultRow struct {
	RunID          string
	DatasetID      int
	Filename       string
	Outcome        string
	Accuracy       sql.NullFloat64
	Precision      sql.NullFloat64
	Recall         sql.NullFloat64
	F1             sql.NullFloat64
	TN, FP, FN, TP sql.NullInt64
	ActiveSamples  int
	TotalSamples   int
	Error          string
}

// ResultRowFromEMG converts a pipeline result for persistence.
func ResultRowFromEMG(runID string, r emg.Result) ResultRow {
	row := ResultRow{
		RunID:         runID,
		DatasetID:     r.DatasetID,
		Filename:      r.Name,
		Outcome:       r.Eval.Outcome.String(),
		Accuracy:      scoreToNull(r.Eval.Accuracy),
		Precision:     scoreToNull(r.Eval.Precision),
		Recall:        scoreToNull(r.Eval.Recall),
		F1:            scoreToNull(r.Eval.F1),
		ActiveSamples: emg.CountActive(r.Mask),
		TotalSamples:  len(r.Mask),
	}
	if r.Err != nil {
		row.Outcome = "failed"
		row.Error = r.Err.Error()
	}
	if m := r.Eval.Matrix; m != nil {
		row.TN = sql.NullInt64{Int64: int64(m.TN), Valid: true}
		row.FP = sql.NullInt64{Int64: int64(m.FP), Valid: true}
		row.FN = sql.NullInt64{Int64: int64(m.FN), Valid: true}
		row.TP = sql.NullInt64{Int64: int64(m.TP), Valid: true}
	}
	return row
}

func scoreToNull(s emg.Score) sql.NullFloat64 {
	return sql.NullFloat64{Float64: s.Value, Valid: s.Defined}
}

// ResultAPI is the JSON-safe view of a ResultRow; nil pointers render
// as null so "no score" never reads as 0.0 downstream.
type ResultAPI struct {
	RunID         string   `json:"run_id"`
	DatasetID     int      `json:"dataset_id"`
	Filename      string   `json:"filename"`
	Outcome       string   `json:"outcome"`
	Accuracy      *float64 `json:"accuracy"`
	Precision     *float64 `json:"precision"`
	Recall        *float64 `json:"recall"`
	F1            *float64 `json:"f1"`
	Confusion     *[4]int  `json:"confusion,omitempty"` // tn, fp, fn, tp
	ActiveSamples int      `json:"active_samples"`
	TotalSamples  int      `json:"total_samples"`
	Error         string   `json:"error,omitempty"`
}

// ResultToAPI converts a row to its API shape.
func ResultToAPI(row ResultRow) ResultAPI {
	api := ResultAPI{
		RunID:         row.RunID,
		DatasetID:     row.DatasetID,
		Filename:      row.Filename,
		Outcome:       row.Outcome,
		ActiveSamples: row.ActiveSamples,
		TotalSamples:  row.TotalSamples,
		Error:         row.Error,
	}
	api.Accuracy = nullToPtr(row.Accuracy)
	api.Precision = nullToPtr(row.Precision)
	api.Recall = nullToPtr(row.Recall)
	api.F1 = nullToPtr(row.F1)
	if row.TN.Valid {
		api.Confusion = &[4]int{int(row.TN.Int64), int(row.FP.Int64), int(row.FN.Int64), int(row.TP.Int64)}
	}
	return api
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// RecordRun inserts a run record.
func (db *DB) RecordRun(run Run) error {
	_, err := db.Exec(
		`INSERT INTO runs (run_id, started_at, config_json, dataset_count) VALUES (?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.ConfigJSON, run.DatasetCount,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecordResult inserts one dataset result for a run.
func (db *DB) RecordResult(row ResultRow) error {
	_, err := db.Exec(
		`INSERT INTO results (
			run_id, dataset_id, filename, outcome,
			accuracy, precision_score, recall_score, f1_score,
			tn, fp, fn, tp, active_samples, total_samples, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.RunID, row.DatasetID, row.Filename, row.Outcome,
		row.Accuracy, row.Precision, row.Recall, row.F1,
		row.TN, row.FP, row.FN, row.TP,
		row.ActiveSamples, row.TotalSamples, row.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// Runs returns all runs, newest first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query(`SELECT run_id, started_at, config_json, dataset_count FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.ConfigJSON, &r.DatasetCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the most recent run, or sql.ErrNoRows when the
// database holds none.
func (db *DB) LatestRun() (Run, error) {
	var r Run
	err := db.QueryRow(
		`SELECT run_id, started_at, config_json, dataset_count FROM runs ORDER BY started_at DESC LIMIT 1`,
	).Scan(&r.ID, &r.StartedAt, &r.ConfigJSON, &r.DatasetCount)
	return r, err
}

// ResultsForRun returns the per-dataset results of a run in dataset
// order.
func (db *DB) ResultsForRun(runID string) ([]ResultRow, error) {
	rows, err := db.Query(
		`SELECT run_id, dataset_id, filename, outcome,
			accuracy, precision_score, recall_score, f1_score,
			tn, fp, fn, tp, active_samples, total_samples, error
		FROM results WHERE run_id = ? ORDER BY dataset_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []ResultRow
	for rows.Next() {
		var row ResultRow
		if err := rows.Scan(
			&row.RunID, &row.DatasetID, &row.Filename, &row.Outcome,
			&row.Accuracy, &row.Precision, &row.Recall, &row.F1,
			&row.TN, &row.FP, &row.FN, &row.TP,
			&row.ActiveSamples, &row.TotalSamples, &row.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
