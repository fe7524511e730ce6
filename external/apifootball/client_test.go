package apifootball

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/football-predictions/internal/domain/upstream"
	"github.com/riskibarqy/football-predictions/internal/platform/cache"
	"github.com/riskibarqy/football-predictions/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, store cache.Store, breaker resilience.CircuitBreakerConfig) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL + "/v3",
		Host:           "api-football-v1.p.rapidapi.com",
		APIKey:         "secret-key",
		Cache:          store,
		CircuitBreaker: breaker,
	})
	return client, srv
}

func TestClient_FetchSendsHeadersAndDecodes(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotKey, gotHost string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-rapidapi-key")
		gotHost = r.Header.Get("x-rapidapi-host")
		_, _ = w.Write([]byte(`{"response":[{"fixture":{"id":1}}]}`))
	}, nil, resilience.CircuitBreakerConfig{})

	resp, err := client.Fetch(context.Background(), upstream.EndpointFixtures, upstream.FixturesByDate("2026-03-01"))
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if gotPath != "/v3/fixtures" || gotQuery != "date=2026-03-01" {
		t.Fatalf("unexpected request path=%q query=%q", gotPath, gotQuery)
	}
	if gotKey != "secret-key" || gotHost != "api-football-v1.p.rapidapi.com" {
		t.Fatalf("unexpected headers key=%q host=%q", gotKey, gotHost)
	}
	if len(resp.Items()) != 1 {
		t.Fatalf("expected one item, got %d", len(resp.Items()))
	}
}

func TestClient_RequestAbsorbsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{"message":"nope"}`, wantErr: "status=404"},
		{name: "server error", status: http.StatusBadGateway, body: `oops`, wantErr: "status=502"},
		{name: "invalid json", status: http.StatusOK, body: `{not json`, wantErr: "decode provider payload"},
		{name: "provider errors", status: http.StatusOK, body: `{"errors":{"token":"invalid"},"response":[]}`, wantErr: "provider reported errors"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, nil, resilience.CircuitBreakerConfig{})

			_, err := client.Fetch(context.Background(), upstream.EndpointFixtures, nil)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}

			resp := client.Request(context.Background(), upstream.EndpointFixtures, nil)
			if resp == nil || !resp.IsEmpty() {
				t.Fatalf("expected empty response, got %#v", resp)
			}
		})
	}
}

func TestClient_TransportFailureYieldsEmpty(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{
		BaseURL: "http://127.0.0.1:1/v3",
		APIKey:  "secret-key",
		Timeout: time.Second,
	})

	resp := client.Request(context.Background(), upstream.EndpointTeams, upstream.TeamSearch("arsenal"))
	if !resp.IsEmpty() {
		t.Fatalf("expected empty response on transport failure")
	}
}

func TestClient_CachesSuccessfulBodies(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := cache.NewMemory(30*time.Minute, 100, cache.WithClock(func() time.Time { return clock }))

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"response":[{"team":{"id":42}}]}`))
	}, store, resilience.CircuitBreakerConfig{})

	ctx := context.Background()
	query := upstream.TeamSearch("arsenal")
	for i := 0; i < 3; i++ {
		resp := client.Request(ctx, upstream.EndpointTeams, query)
		if len(resp.Items()) != 1 {
			t.Fatalf("expected one item on call %d", i)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one upstream call within freshness window, got %d", got)
	}
	if _, ok := store.Get(ctx, "teams?search=arsenal"); !ok {
		t.Fatalf("expected cache entry keyed by endpoint and query")
	}

	clock = clock.Add(31 * time.Minute)
	_ = client.Request(ctx, upstream.EndpointTeams, query)
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected refetch after freshness window, got %d calls", got)
	}
}

func TestClient_FailuresAreNotCached(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	store := cache.NewMemory(time.Minute, 10)
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, store, resilience.CircuitBreakerConfig{})

	_ = client.Request(context.Background(), upstream.EndpointPredictions, upstream.ByFixture(1))
	_ = client.Request(context.Background(), upstream.EndpointPredictions, upstream.ByFixture(1))
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected failures to skip the cache, got %d calls", got)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty cache")
	}
}

func TestClient_CircuitBreakerShortCircuits(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil, resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = client.Request(ctx, upstream.EndpointFixtures, url.Values{"date": {"2026-03-01"}})
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected breaker to stop calls after threshold, got %d", got)
	}
	if state := client.CircuitSnapshot().State; state != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got %s", state)
	}
}

func TestClient_ErrorsRedactAPIKey(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"bad key ` + r.Header.Get("x-rapidapi-key") + `"}`))
	}, nil, resilience.CircuitBreakerConfig{})

	_, err := client.Fetch(context.Background(), upstream.EndpointFixtures, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := sanitizeSensitiveText(err.Error(), "secret-key"); strings.Contains(got, "secret-key") {
		t.Fatalf("expected api key redacted, got %q", got)
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	got := cacheKey(upstream.EndpointFixtures, url.Values{"team": {"42"}, "next": {"10"}, "status": {"NS"}})
	if got != "fixtures?next=10&status=NS&team=42" {
		t.Fatalf("unexpected cache key %q", got)
	}
}
