// Package config loads service settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/api"
	"github.com/damon-houk/cnb-exchange-rates/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CNBDailyURL     string
	HTTPTimeout     time.Duration
	FetchMaxRetries int
	CacheTTL        time.Duration
	DataDir         string
	SnapshotEnabled bool
	LogLevel        logger.Level
	RateLimit       string
}

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = time.Hour
	defaultMaxRetries  = 3
)

// Load reads configuration from environment variables and .env file if present. Bad durations
// and counts fall back to their defaults with a warning; an empty port is an error.
func Load(log logger.Logger) (*Config, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("CNB_DAILY_URL", api.DefaultDailyURL)
	v.SetDefault("HTTP_TIMEOUT", defaultHTTPTimeout.String())
	v.SetDefault("FETCH_MAX_RETRIES", defaultMaxRetries)
	v.SetDefault("CACHE_TTL", defaultCacheTTL.String())
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("SNAPSHOT_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT", "120-M")
	v.AutomaticEnv()

	cfg := &Config{
		Port:            v.GetString("PORT"),
		CNBDailyURL:     v.GetString("CNB_DAILY_URL"),
		DataDir:         v.GetString("DATA_DIR"),
		SnapshotEnabled: v.GetBool("SNAPSHOT_ENABLED"),
		RateLimit:       v.GetString("RATE_LIMIT"),
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	if cfg.CNBDailyURL == "" {
		cfg.CNBDailyURL = api.DefaultDailyURL
	}

	cfg.HTTPTimeout = durationOrDefault(log, v, "HTTP_TIMEOUT", defaultHTTPTimeout)
	cfg.CacheTTL = durationOrDefault(log, v, "CACHE_TTL", defaultCacheTTL)

	retries, err := strconv.Atoi(v.GetString("FETCH_MAX_RETRIES"))
	if err != nil || retries < 1 {
		log.Warn("Invalid FETCH_MAX_RETRIES, using default", map[string]interface{}{
			"value":   v.GetString("FETCH_MAX_RETRIES"),
			"default": defaultMaxRetries,
		})
		retries = defaultMaxRetries
	}
	cfg.FetchMaxRetries = retries

	level, err := logger.ParseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		log.Warn("Invalid LOG_LEVEL, using info", map[string]interface{}{
			"value": v.GetString("LOG_LEVEL"),
		})
	}
	cfg.LogLevel = level

	return cfg, nil
}

func durationOrDefault(log logger.Logger, v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn("Invalid duration, using default", map[string]interface{}{
			"key":     key,
			"value":   raw,
			"default": def.String(),
		})
		return def
	}
	return d
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}
