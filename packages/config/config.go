// Package config
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	// Fetching
	FetchTimeout    time.Duration
	RenderWait      time.Duration
	RequestInterval time.Duration
	UserAgent       string

	// Retry and pacing
	MaxAttempts  int
	RetryBackoff time.Duration
	JobPacing    time.Duration

	// One fetch stream per category instead of a single sequential batch.
	ParallelCategories bool

	// Optional page cache, enabled when REDIS_ADDR is set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PageCacheTTL  time.Duration

	// Optional Postgres sink, enabled when DATABASE_URL is set.
	DatabaseURL string

	// Optional Prometheus listener, enabled when METRICS_ADDR is set.
	MetricsAddr string

	// Logging
	LogFile  string
	LogLevel string
}

func Load() (Config, error) {
	cfg := Config{}

	cfg.FetchTimeout = getDuration("FETCH_TIMEOUT", 15*time.Second)
	cfg.RenderWait = getDuration("RENDER_WAIT", 10*time.Second)
	cfg.RequestInterval = getDuration("REQUEST_INTERVAL", time.Second)
	cfg.UserAgent = getEnv("USER_AGENT", defaultUserAgent)

	cfg.MaxAttempts = getInt("MAX_ATTEMPTS", 3)
	cfg.RetryBackoff = getDuration("RETRY_BACKOFF", 2*time.Second)
	cfg.JobPacing = getDuration("JOB_PACING", 2*time.Second)

	cfg.ParallelCategories = getBool("PARALLEL_CATEGORIES", false)

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB = getInt("REDIS_DB", 0)
	cfg.PageCacheTTL = getDuration("PAGE_CACHE_TTL", 24*time.Hour)

	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.MetricsAddr = getEnv("METRICS_ADDR", "")

	cfg.LogFile = getEnv("LOG_FILE", "logs/scraper.log")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	if cfg.MaxAttempts < 1 {
		return cfg, fmt.Errorf("MAX_ATTEMPTS must be at least 1, got %d", cfg.MaxAttempts)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("Invalid integer in environment", "key", key, "value", raw, "error", err)
		return defaultVal
	}
	return n
}

func getBool(key string, defaultVal bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Invalid boolean in environment", "key", key, "value", raw, "error", err)
		return defaultVal
	}
	return b
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid duration in environment", "key", key, "value", raw, "error", err)
		return defaultVal
	}
	return d
}
