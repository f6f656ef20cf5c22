package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func get(t *testing.T, h http.Handler, path string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return rec.Code, body
}

func TestNotReady(t *testing.T) {
	s := New(0)
	for _, path := range []string{"/healthz", "/readyz"} {
		code, body := get(t, s.Handler(), path)
		if code != http.StatusServiceUnavailable || body["status"] != "not_ready" {
			t.Errorf("%s = %d %v", path, code, body)
		}
	}
}

func TestReady(t *testing.T) {
	s := New(0)
	s.AddCheck("store", func(context.Context) error { return nil })
	s.SetReady(true)
	for _, path := range []string{"/healthz", "/readyz"} {
		code, body := get(t, s.Handler(), path)
		if code != http.StatusOK || body["status"] != "ok" {
			t.Errorf("%s = %d %v", path, code, body)
		}
	}
}

func TestReadyzFailingCheck(t *testing.T) {
	s := New(0)
	s.AddCheck("store", func(context.Context) error { return errors.New("database is locked") })
	s.SetReady(true)

	code, _ := get(t, s.Handler(), "/healthz")
	if code != http.StatusOK {
		t.Errorf("/healthz = %d, liveness should ignore checks", code)
	}
	code, body := get(t, s.Handler(), "/readyz")
	if code != http.StatusServiceUnavailable || body["status"] != "degraded" {
		t.Fatalf("/readyz = %d %v", code, body)
	}
	checks, _ := body["checks"].(map[string]any)
	if checks["store"] != "database is locked" {
		t.Errorf("checks = %v", body["checks"])
	}
}
