package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Location.FreshnessWindow)
	assert.Equal(t, 2000.0, cfg.Location.NearbyRadiusM)
	assert.Equal(t, 8, cfg.Location.NearbyLimit)
	assert.Equal(t, 0, cfg.Geocoder.RetryMax)
	assert.NotEmpty(t, cfg.Geocoder.UserAgent)
	assert.Equal(t, cfg.Geocoder.UserAgent, cfg.Places.UserAgent)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, "location-refresh-workers", cfg.Worker.ConsumerGroup)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_PORT", "9090")
	t.Setenv("LOCATION_FRESHNESS_HOURS", "6")
	t.Setenv("SEARCH_CACHE_TTL", "120")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 6*time.Hour, cfg.Location.FreshnessWindow)
	assert.Equal(t, 2*time.Minute, cfg.Cache.SearchCacheTTL)
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
