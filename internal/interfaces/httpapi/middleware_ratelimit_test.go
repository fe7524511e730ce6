package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	handler := RateLimit(4, okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/fixtures", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests && rec.Header().Get("Retry-After") != "60" {
			t.Fatalf("expected Retry-After=60, got %q", rec.Header().Get("Retry-After"))
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}

func TestRateLimit_PerClient(t *testing.T) {
	handler := RateLimit(2, okHandler())

	for _, addr := range []string{"203.0.113.7:1", "203.0.113.8:1"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/fixtures", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected first request from %s to pass, got %d", addr, rec.Code)
		}
	}
}

func TestRateLimit_HealthAndDisabled(t *testing.T) {
	limited := RateLimit(1, okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected health checks to bypass the limiter, got %d", rec.Code)
		}
	}

	disabled := RateLimit(0, okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/fixtures", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected disabled limiter to pass, got %d", rec.Code)
		}
	}
}

func TestIPLimiter_SweepDropsIdleClients(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	limiter := newIPLimiter(60, time.Minute)
	limiter.now = func() time.Time { return now }

	limiter.allow("198.51.100.1")
	now = now.Add(rateLimitIdleTimeout + time.Second)
	limiter.allow("198.51.100.2")
	limiter.sweep(now)

	if _, ok := limiter.limiters["198.51.100.1"]; ok {
		t.Fatalf("expected idle client to be swept")
	}
	if _, ok := limiter.limiters["198.51.100.2"]; !ok {
		t.Fatalf("expected active client to be kept")
	}
}
