package apifootball

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/football-predictions/internal/domain/upstream"
	"github.com/riskibarqy/football-predictions/internal/platform/cache"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
	"github.com/riskibarqy/football-predictions/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://api-football-v1.p.rapidapi.com/v3"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 6 << 20

	headerAPIKey  = "x-rapidapi-key"
	headerAPIHost = "x-rapidapi-host"
)

var errTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	Host              string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
	Cache             cache.Store
}

// Client reads API-Football through RapidAPI. Successful bodies are cached
// by endpoint and encoded query.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	limiter    *rate.Limiter
	loader     *cache.Loader
}

var _ upstream.Provider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("apifootball")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		if parsed, err := url.Parse(baseURL); err == nil {
			host = parsed.Host
		}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	breaker := resilience.NewFromConfig("apifootball", cfg.CircuitBreaker)
	breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		host:       host,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    breaker,
		limiter:    limiter,
		loader:     cache.NewLoader(cfg.Cache),
	}
}

// Request is Fetch with every failure absorbed into an empty response.
func (c *Client) Request(ctx context.Context, endpoint string, query url.Values) upstream.Response {
	resp, err := c.Fetch(ctx, endpoint, query)
	if err != nil {
		c.logger.WarnContext(ctx, "api-football request failed, serving empty response",
			"endpoint", endpoint,
			"query", query.Encode(),
			"error", sanitizeSensitiveText(err.Error(), c.apiKey),
		)
		return upstream.Empty()
	}
	if resp == nil {
		return upstream.Empty()
	}
	return resp
}

// Fetch issues GET <base>/<endpoint>?<query>. Non-2xx statuses, transport
// failures, provider-reported errors and undecodable bodies are returned as
// errors and never cached.
func (c *Client) Fetch(ctx context.Context, endpoint string, query url.Values) (upstream.Response, error) {
	endpoint = strings.Trim(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	key := cacheKey(endpoint, query)
	fullURL := c.baseURL + "/" + key
	started := time.Now()

	var decoded upstream.Response
	raw, hit, err := c.loader.GetOrLoad(ctx, key, func(ctx context.Context) ([]byte, error) {
		body, err := c.doRequest(ctx, fullURL)
		if err != nil {
			return nil, err
		}
		resp, err := decode(body)
		if err != nil {
			return nil, err
		}
		if providerErr := providerErrors(resp); providerErr != "" {
			return nil, fmt.Errorf("provider reported errors: %s", providerErr)
		}
		decoded = resp
		return body, nil
	})
	if err != nil {
		return nil, err
	}

	if decoded == nil {
		decoded, err = decode(raw)
		if err != nil {
			return nil, err
		}
	}

	c.logger.DebugContext(ctx, "api-football response",
		"endpoint", endpoint,
		"cache_hit", hit,
		"results", len(decoded.Items()),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return decoded, nil
}

// CircuitSnapshot reports the breaker state for health checks.
func (c *Client) CircuitSnapshot() resilience.Snapshot {
	snap := c.breaker.Snapshot()
	if snap.Name == "" {
		snap.Name = "apifootball"
	}
	return snap
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		return nil, crerr.Wrap(err, "api-football is temporarily unavailable")
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if err != nil && isCircuitFailure(err) {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(headerAPIKey, c.apiKey)
		req.Header.Set(headerAPIHost, c.host)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	return nil, lastErr
}

func decode(raw []byte) (upstream.Response, error) {
	var resp upstream.Response
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}
	return resp, nil
}

// providerErrors returns the provider's "errors" member when it is not
// empty. API-Football reports quota and token problems this way with a 200.
func providerErrors(resp upstream.Response) string {
	switch v := resp["errors"].(type) {
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
	case []any:
		if len(v) == 0 {
			return ""
		}
	case string:
		return abbreviateBody([]byte(v))
	default:
		return ""
	}

	encoded, err := sonic.MarshalString(resp["errors"])
	if err != nil {
		return "unreadable errors payload"
	}
	return abbreviateBody([]byte(encoded))
}

// cacheKey is endpoint?encoded-query; url.Values.Encode sorts keys.
func cacheKey(endpoint string, query url.Values) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(endpoint)
	_ = buf.WriteByte('?')
	_, _ = buf.WriteString(query.Encode())
	return buf.String()
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
