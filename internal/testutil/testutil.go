// Package testutil provides shared test helpers and synthetic pixel
// clouds.
package testutil

import (
	"math"
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

// AssertNear checks that got is within tol of want. Two NaNs are equal.
func AssertNear(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) && math.IsNaN(want) {
		return
	}
	if math.IsNaN(got) || math.IsNaN(want) || math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%g)", name, got, want, tol)
	}
}

// NewLoopbackRequest creates a test request from a loopback address, which
// tsweb debug routes require.
func NewLoopbackRequest(method, path string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "127.0.0.1:12345"
	return req
}
