package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-predictions/internal/config"
	"github.com/riskibarqy/football-predictions/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:                  config.EnvDev,
		ServiceName:             "football-predictions-api",
		HTTPAddr:                ":0",
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
		Location:                time.UTC,
		RapidAPIBaseURL:         "http://127.0.0.1:1",
		RapidAPIHost:            "v3.football.api-sports.io",
		UpstreamTimeout:         time.Second,
		UpstreamCircuitEnabled:  true,
		UpstreamCircuitFailures: 5,
		UpstreamCircuitOpenFor:  time.Second,
		UpstreamCircuitHalfOpen: 1,
		CacheTTL:                time.Minute,
		CacheMaxEntries:         16,
		EnrichWorkers:           2,
	}
}

func TestNew_WiresServer(t *testing.T) {
	cfg := testConfig()

	a, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, a.Server)
	require.Equal(t, ":0", a.Server.Addr)
	require.Equal(t, time.Second, a.Server.WriteTimeout)
	require.NotNil(t, a.Server.Handler)
	require.NoError(t, a.Close())
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPAddr = ""

	_, err := New(cfg, nil)
	require.Error(t, err)
}

func TestNew_InvalidRedisURL(t *testing.T) {
	cfg := testConfig()
	cfg.RedisURL = "://not-a-url"

	_, err := New(cfg, nil)
	require.Error(t, err)
}
