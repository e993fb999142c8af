// Package testutil holds shared helpers for HTTP handler tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a bodyless request against a handler under
// test.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// DecodeJSONBody decodes a recorded JSON response into v, failing the
// test on malformed output.
func DecodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}
