// Package testutil provides common test utilities and helpers for StudyPlanner tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
)

// TB is the subset of testing.TB the helpers need, so they can be exercised
// against a recording fake.
type TB interface {
	Helper()
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t TB, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONContentType checks the response declares a JSON body.
func AssertJSONContentType(t TB, rr *httptest.ResponseRecorder) {
	t.Helper()
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("expected application/json content type, got %q", ct)
	}
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for testing.
// A string or []byte body is sent as-is; anything else is marshaled.
func CreateHTTPRequest(t TB, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	case []byte:
		reqBody = bytes.NewBuffer(b)
	default:
		reqBody = bytes.NewBuffer(MustMarshalJSON(t, body))
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// DecodeJSONResponse decodes the recorder body into target.
func DecodeJSONResponse(t TB, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
}

// AssertJSONEqual compares two JSON documents semantically.
func AssertJSONEqual(t TB, expected, actual []byte, context string) {
	t.Helper()
	var want, got interface{}
	if err := json.Unmarshal(expected, &want); err != nil {
		t.Fatalf("%s: invalid expected JSON: %v", context, err)
		return
	}
	if err := json.Unmarshal(actual, &got); err != nil {
		t.Fatalf("%s: invalid actual JSON: %v", context, err)
		return
	}
	if !bytes.Equal(MustMarshalJSON(t, want), MustMarshalJSON(t, got)) {
		t.Errorf("%s: JSON mismatch\nexpected: %s\nactual:   %s", context, expected, actual)
	}
}

// MustMarshalJSON marshals an object to JSON and fails test on error.
func MustMarshalJSON(t TB, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}

// MustUnmarshalJSON unmarshals JSON data into target and fails test on error.
func MustUnmarshalJSON(t TB, data []byte, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}
}
