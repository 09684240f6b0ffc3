package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/health", "")
	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || decode(t, rec)["status"] != "ok" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	c, rec := newTestContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthHandler(map[string]Pinger{"sessions": ok, "store": ok}).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, rec = newTestContext(http.MethodGet, "/health/ready", "")
	if err := NewHealthHandler(map[string]Pinger{"sessions": ok, "store": down}).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decode(t, rec)
	if rec.Code != http.StatusServiceUnavailable || resp["status"] != "degraded" {
		t.Fatalf("unexpected response %d %v", rec.Code, resp)
	}
	store := resp["dependencies"].(map[string]any)["store"].(map[string]any)
	if store["status"] != "unhealthy" || store["error"] != "connection refused" {
		t.Fatalf("unexpected store status %v", store)
	}
}
