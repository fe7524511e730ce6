package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	Location           *time.Location
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	RateLimitPerMinute int

	RapidAPIKey             string
	RapidAPIHost            string
	RapidAPIBaseURL         string
	UpstreamTimeout         time.Duration
	UpstreamMaxRetries      int
	UpstreamRatePerMinute   int
	UpstreamCircuitEnabled  bool
	UpstreamCircuitFailures int
	UpstreamCircuitOpenFor  time.Duration
	UpstreamCircuitHalfOpen int

	CacheTTL        time.Duration
	CacheMaxEntries int
	RedisURL        string

	EnrichWorkers      int
	SearchMaxTeams     int
	SearchNextFixtures int
	HeadToHeadLast     int
	TeamStatsSeason    int
	TeamStatsLookback  int

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PprofEnabled               bool
	PprofAddr                  string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "football-predictions-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":10000"),
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RapidAPIKey:        strings.TrimSpace(getEnv("RAPIDAPI_KEY", "")),
		RapidAPIHost:       strings.TrimSpace(getEnv("RAPIDAPI_HOST", "")),
		RapidAPIBaseURL:    strings.TrimSpace(getEnv("RAPIDAPI_BASE_URL", "https://api-football-v1.p.rapidapi.com/v3")),
		RedisURL:           strings.TrimSpace(getEnv("REDIS_URL", "")),
		PprofAddr:          strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	if cfg.RapidAPIKey == "" && appEnv != EnvDev {
		return Config{}, crerr.Newf("RAPIDAPI_KEY is required when APP_ENV=%s", appEnv)
	}

	location, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, crerr.Wrap(err, "parse APP_TIMEZONE")
	}
	cfg.Location = location

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	p := parser{}
	cfg.SwaggerEnabled = p.boolean("SWAGGER_ENABLED", swaggerDefault)
	cfg.ReadTimeout = p.positiveDuration("APP_READ_TIMEOUT", "10s")
	cfg.WriteTimeout = p.positiveDuration("APP_WRITE_TIMEOUT", "120s")
	cfg.RateLimitPerMinute = p.intAtLeast("HTTP_RATE_LIMIT_PER_MINUTE", 0, 0)

	cfg.UpstreamTimeout = p.positiveDuration("UPSTREAM_TIMEOUT", "10s")
	cfg.UpstreamMaxRetries = p.intAtLeast("UPSTREAM_MAX_RETRIES", 0, 0)
	cfg.UpstreamRatePerMinute = p.intAtLeast("UPSTREAM_RATE_PER_MINUTE", 0, 0)
	cfg.UpstreamCircuitEnabled = p.boolean("UPSTREAM_CIRCUIT_ENABLED", "true")
	cfg.UpstreamCircuitFailures = p.intAtLeast("UPSTREAM_CIRCUIT_FAILURE_COUNT", 5, 1)
	cfg.UpstreamCircuitOpenFor = p.positiveDuration("UPSTREAM_CIRCUIT_OPEN_TIMEOUT", "30s")
	cfg.UpstreamCircuitHalfOpen = p.intAtLeast("UPSTREAM_CIRCUIT_HALF_OPEN_MAX_REQ", 1, 1)

	cfg.CacheTTL = p.positiveDuration("CACHE_TTL", "30m")
	cfg.CacheMaxEntries = p.intAtLeast("CACHE_MAX_ENTRIES", 2048, 1)

	cfg.EnrichWorkers = p.intAtLeast("ENRICH_WORKERS", 8, 1)
	cfg.SearchMaxTeams = p.intAtLeast("SEARCH_MAX_TEAMS", 5, 1)
	cfg.SearchNextFixtures = p.intAtLeast("SEARCH_NEXT_FIXTURES", 10, 1)
	cfg.HeadToHeadLast = p.intAtLeast("H2H_LAST", 5, 1)
	cfg.TeamStatsSeason = p.intAtLeast("TEAM_STATS_SEASON", 0, 0)
	cfg.TeamStatsLookback = p.intAtLeast("TEAM_STATS_LOOKBACK", 3, 1)

	cfg.UptraceEnabled = p.boolean("UPTRACE_ENABLED", "false")
	cfg.UptraceLogsEnabled = p.boolean("UPTRACE_LOGS_ENABLED", "true")
	cfg.PprofEnabled = p.boolean("PPROF_ENABLED", "false")
	cfg.PyroscopeEnabled = p.boolean("PYROSCOPE_ENABLED", "false")
	cfg.PyroscopeUploadRate = p.positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if p.err != nil {
		return Config{}, p.err
	}

	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, crerr.New("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, crerr.New("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, crerr.New("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

// parser keeps the first error so Load can read every key before checking.
type parser struct {
	err error
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *parser) boolean(key, fallback string) bool {
	v, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		p.fail(crerr.Wrapf(err, "parse %s", key))
	}
	return v
}

func (p *parser) positiveDuration(key, fallback string) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		p.fail(crerr.Wrapf(err, "parse %s", key))
		return 0
	}
	if v <= 0 {
		p.fail(crerr.Newf("%s must be > 0", key))
	}
	return v
}

func (p *parser) intAtLeast(key string, fallback, minimum int) int {
	v, err := getEnvAsInt(key, fallback)
	if err != nil {
		p.fail(crerr.Wrapf(err, "parse %s", key))
		return 0
	}
	if v < minimum {
		p.fail(crerr.Newf("%s must be >= %d", key, minimum))
	}
	return v
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	return strconv.Atoi(value)
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", crerr.Newf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
