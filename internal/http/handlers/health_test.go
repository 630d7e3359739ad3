package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealth(t *testing.T) {
	app := newTestApp()
	app.Checks = map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	}

	rec := serve(app.Health, http.MethodGet, "/v1/healthz", "/v1/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeMap(t, rec.Body.String()); got["status"] != "ok" || len(got) != 1 {
		t.Fatalf("body = %v", got)
	}
}

func TestHealthReportsFailingDependencies(t *testing.T) {
	app := newTestApp()
	app.Checks = map[string]HealthCheck{
		"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
		"database": func(context.Context) error { return errors.New("timeout") },
		"storage":  func(context.Context) error { return nil },
	}

	rec := serve(app.Health, http.MethodGet, "/v1/healthz", "/v1/healthz", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeMap(t, rec.Body.String())
	failed, _ := got["failed"].([]any)
	if got["status"] != "unavailable" || len(failed) != 2 || failed[0] != "database" || failed[1] != "redis" {
		t.Fatalf("body = %v", got)
	}
}
