package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RAPIDAPI_KEY", "")
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	t.Setenv("PPROF_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "false")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)
	for _, key := range []string{"APP_HTTP_ADDR", "APP_WRITE_TIMEOUT", "CACHE_TTL", "CACHE_MAX_ENTRIES", "UPSTREAM_MAX_RETRIES", "TEAM_STATS_LOOKBACK", "APP_TIMEZONE", "RAPIDAPI_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":10000" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.WriteTimeout != 120*time.Second {
		t.Fatalf("unexpected WriteTimeout: %s", cfg.WriteTimeout)
	}
	if cfg.CacheTTL != 30*time.Minute || cfg.CacheMaxEntries != 2048 {
		t.Fatalf("unexpected cache config: ttl=%s max=%d", cfg.CacheTTL, cfg.CacheMaxEntries)
	}
	if cfg.UpstreamMaxRetries != 0 {
		t.Fatalf("expected no retries by default, got %d", cfg.UpstreamMaxRetries)
	}
	if cfg.TeamStatsLookback != 3 || cfg.SearchMaxTeams != 5 || cfg.SearchNextFixtures != 10 || cfg.HeadToHeadLast != 5 {
		t.Fatalf("unexpected usecase defaults: %+v", cfg)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("expected UTC location, got %v", cfg.Location)
	}
	if cfg.RapidAPIBaseURL != "https://api-football-v1.p.rapidapi.com/v3" {
		t.Fatalf("unexpected base url: %q", cfg.RapidAPIBaseURL)
	}
}

func TestLoad_RapidAPIKeyRequiredOutsideDev(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", EnvProd)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when RAPIDAPI_KEY is missing in prod")
	}

	t.Setenv("RAPIDAPI_KEY", "key-123")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RapidAPIKey != "key-123" {
		t.Fatalf("unexpected RapidAPIKey")
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected SwaggerEnabled=false in prod by default")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{key: "CACHE_TTL", value: "soon"},
		{key: "CACHE_TTL", value: "-1s"},
		{key: "CACHE_MAX_ENTRIES", value: "0"},
		{key: "UPSTREAM_MAX_RETRIES", value: "-1"},
		{key: "ENRICH_WORKERS", value: "many"},
		{key: "UPSTREAM_CIRCUIT_ENABLED", value: "maybe"},
		{key: "APP_TIMEZONE", value: "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_SERVICE_NAME", "predictions-test")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "predictions-test" {
		t.Fatalf("unexpected PyroscopeAppName: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_UpstreamAndRateLimitParsing(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("UPSTREAM_RATE_PER_MINUTE", "300")
	t.Setenv("UPSTREAM_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("UPSTREAM_CIRCUIT_OPEN_TIMEOUT", "45s")
	t.Setenv("HTTP_RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UpstreamRatePerMinute != 300 || cfg.UpstreamCircuitFailures != 7 || cfg.UpstreamCircuitOpenFor != 45*time.Second {
		t.Fatalf("unexpected upstream config: %+v", cfg)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Fatalf("unexpected RateLimitPerMinute: %d", cfg.RateLimitPerMinute)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected RedisURL: %q", cfg.RedisURL)
	}
	if cfg.Location.String() != "Asia/Jakarta" {
		t.Fatalf("unexpected Location: %v", cfg.Location)
	}
}

func TestParseLogLevel(t *testing.T) {
	if parseLogLevel("WARNING").String() != "warn" {
		t.Fatalf("expected warn level")
	}
	if parseLogLevel("nonsense").String() != "info" {
		t.Fatalf("expected info fallback")
	}
}
