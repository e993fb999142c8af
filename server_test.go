package main

import (
	"database/sql"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/emg.report/internal/db"
	"github.com/banshee-data/emg.report/internal/testutil"
)

// seedServer builds a server over a temp database holding one run with
// one evaluated and one skipped result.
func seedServer(t *testing.T) (*Server, db.Run) {
	t.Helper()

	database, err := db.NewDB(filepath.Join(t.TempDir(), "emg_test.db"))
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { database.Close() })

	run := db.NewRun(`{"detect_window":100}`, 2)
	testutil.AssertNoError(t, database.RecordRun(run))

	evaluated := db.ResultRow{
		RunID:         run.ID,
		DatasetID:     0,
		Filename:      "emg_000.csv",
		Outcome:       "evaluated",
		Accuracy:      sql.NullFloat64{Float64: 0.96, Valid: true},
		TN:            sql.NullInt64{Int64: 800, Valid: true},
		FP:            sql.NullInt64{Int64: 0, Valid: true},
		FN:            sql.NullInt64{Int64: 40, Valid: true},
		TP:            sql.NullInt64{Int64: 160, Valid: true},
		ActiveSamples: 160,
		TotalSamples:  1000,
	}
	skipped := db.ResultRow{
		RunID:        run.ID,
		DatasetID:    1,
		Filename:     "emg_001.csv",
		Outcome:      "skipped",
		TotalSamples: 500,
	}
	testutil.AssertNoError(t, database.RecordResult(evaluated))
	testutil.AssertNoError(t, database.RecordResult(skipped))

	return NewServer(database), run
}

func TestListRuns(t *testing.T) {
	server, run := seedServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/api/runs")
	rec := testutil.NewTestRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var runs []db.Run
	testutil.DecodeJSONBody(t, rec, &runs)
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("runs = %+v, want single run %s", runs, run.ID)
	}
}

func TestListRuns_MethodNotAllowed(t *testing.T) {
	server, _ := seedServer(t)

	req := testutil.NewTestRequest(http.MethodPost, "/api/runs")
	rec := testutil.NewTestRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
}

func TestListResults_LatestRun(t *testing.T) {
	server, run := seedServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/api/results")
	rec := testutil.NewTestRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var results []db.ResultAPI
	testutil.DecodeJSONBody(t, rec, &results)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].RunID != run.ID || results[0].Outcome != "evaluated" {
		t.Errorf("result[0] = %+v", results[0])
	}
	if results[0].Accuracy == nil || *results[0].Accuracy != 0.96 {
		t.Errorf("accuracy = %v, want 0.96", results[0].Accuracy)
	}
	// Skipped datasets expose null scores, never zeros.
	if results[1].Accuracy != nil || results[1].Confusion != nil {
		t.Errorf("skipped result should carry nulls: %+v", results[1])
	}
}

func TestListResults_ByRunID(t *testing.T) {
	server, run := seedServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/api/results?run_id="+run.ID)
	rec := testutil.NewTestRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
}

func TestListResults_UnknownRun(t *testing.T) {
	server, _ := seedServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/api/results?run_id=no-such-run")
	rec := testutil.NewTestRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestShowReport(t *testing.T) {
	server, _ := seedServer(t)

	req := testutil.NewTestRequest(http.MethodGet, "/report")
	rec := testutil.NewTestRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "EMG Batch Accuracy") {
		t.Error("report body missing accuracy chart")
	}
}

func TestShowReport_NoRuns(t *testing.T) {
	database, err := db.NewDB(filepath.Join(t.TempDir(), "empty.db"))
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { database.Close() })
	server := NewServer(database)

	req := testutil.NewTestRequest(http.MethodGet, "/report")
	rec := testutil.NewTestRecorder()
	server.ServeMux().ServeHTTP(rec, req)

	testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
}

func TestStatusCodeColor(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, colorBoldGreen + "200" + colorReset},
		{302, colorYellow + "302" + colorReset},
		{404, colorBoldRed + "404" + colorReset},
		{100, "100"},
	}

	for _, tt := range tests {
		if got := statusCodeColor(tt.code); got != tt.want {
			t.Errorf("statusCodeColor(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
