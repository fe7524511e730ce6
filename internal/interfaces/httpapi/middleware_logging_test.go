package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

func TestRequestLogging_AssignsRequestID(t *testing.T) {
	handler := RequestLogging(logging.NewNop(), okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))

	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated %s header", requestIDHeader)
	}
}

func TestRequestLogging_KeepsInboundRequestID(t *testing.T) {
	handler := RequestLogging(logging.NewNop(), okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set(requestIDHeader, "edge-abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "edge-abc123" {
		t.Fatalf("expected inbound request id to be echoed, got %q", got)
	}
}

func TestRequestLogging_ReplacesUnprintableRequestID(t *testing.T) {
	handler := RequestLogging(logging.NewNop(), okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/leagues", nil)
	req.Header.Set(requestIDHeader, "bad id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got == "" || got == "bad id" {
		t.Fatalf("expected a generated request id, got %q", got)
	}
}
