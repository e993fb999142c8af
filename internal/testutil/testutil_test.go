package testutil

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestNewTestRequest(t *testing.T) {
	req := NewTestRequest(http.MethodGet, "/api/results?run_id=abc")
	if req.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if req.URL.Path != "/api/results" {
		t.Errorf("path = %s, want /api/results", req.URL.Path)
	}
	if req.URL.Query().Get("run_id") != "abc" {
		t.Errorf("run_id = %q, want abc", req.URL.Query().Get("run_id"))
	}
}

func TestDecodeJSONBody(t *testing.T) {
	rec := NewTestRecorder()
	if err := json.NewEncoder(rec).Encode(map[string]int{"count": 3}); err != nil {
		t.Fatalf("seed recorder: %v", err)
	}

	var out map[string]int
	DecodeJSONBody(t, rec, &out)
	if out["count"] != 3 {
		t.Errorf("count = %d, want 3", out["count"])
	}
}

func TestAssertHelpers(t *testing.T) {
	AssertStatusCode(t, http.StatusOK, http.StatusOK)
	AssertNoError(t, nil)
	AssertError(t, json.Unmarshal([]byte("{"), &struct{}{}))
}
