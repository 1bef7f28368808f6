package config

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/api"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "CNB_DAILY_URL", "HTTP_TIMEOUT", "FETCH_MAX_RETRIES", "CACHE_TTL",
	"DATA_DIR", "SNAPSHOT_ENABLED", "LOG_LEVEL", "RATE_LIMIT",
}

// clearEnv blanks every key so values from the developer's shell do not leak in
func clearEnv(t *testing.T) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(logger.NewJSONLogger(&bytes.Buffer{}, logger.InfoLevel))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, api.DefaultDailyURL, cfg.CNBDailyURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.FetchMaxRetries)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.True(t, cfg.SnapshotEnabled)
	assert.Equal(t, logger.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "120-M", cfg.RateLimit)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CNB_DAILY_URL", "http://localhost:1234/daily.txt")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("FETCH_MAX_RETRIES", "5")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("DATA_DIR", "/var/lib/cnb")
	t.Setenv("SNAPSHOT_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT", "10-S")

	cfg, err := Load(logger.NewJSONLogger(&bytes.Buffer{}, logger.InfoLevel))

	require.NoError(t, err)
	assert.Equal(t, &Config{
		Port:            "9090",
		CNBDailyURL:     "http://localhost:1234/daily.txt",
		HTTPTimeout:     3 * time.Second,
		FetchMaxRetries: 5,
		CacheTTL:        15 * time.Minute,
		DataDir:         "/var/lib/cnb",
		SnapshotEnabled: false,
		LogLevel:        logger.DebugLevel,
		RateLimit:       "10-S",
	}, cfg)
}

func TestLoadFallsBackOnBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("CACHE_TTL", "-1h")
	t.Setenv("FETCH_MAX_RETRIES", "0")
	t.Setenv("LOG_LEVEL", "chatty")

	var buf bytes.Buffer
	cfg, err := Load(logger.NewJSONLogger(&buf, logger.InfoLevel))

	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.FetchMaxRetries)
	assert.Equal(t, logger.InfoLevel, cfg.LogLevel)
	assert.Contains(t, buf.String(), "HTTP_TIMEOUT")
	assert.Contains(t, buf.String(), "CACHE_TTL")
	assert.Contains(t, buf.String(), "FETCH_MAX_RETRIES")
	assert.Contains(t, buf.String(), "LOG_LEVEL")
}

func TestLoadRejectsBadPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")

	_, err := Load(logger.NewJSONLogger(&bytes.Buffer{}, logger.InfoLevel))

	assert.Error(t, err)
}
