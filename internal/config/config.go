package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const defaultAPIBaseURL = "http://192.10.35.35/api"

type Config struct {
	LogLevel string
	LogFile  string

	APIBaseURL         string
	HTTPTimeoutSeconds int
	APIBreakerEnabled  bool

	StagingDir     string
	PollIntervalMS int
	StagingWatch   bool

	CategoriesFile string

	HistoryDB string

	NATSURL     string
	NATSSubject string

	MetricsAddr string
}

func Load() Config {
	return Config{
		LogLevel: mustEnv("LOG_LEVEL", "info"),
		LogFile:  mustEnv("LOG_FILE", "scan-uploader.log"),

		APIBaseURL:         mustEnv("API_BASE_URL", defaultAPIBaseURL),
		HTTPTimeoutSeconds: mustEnvInt("HTTP_TIMEOUT_SECONDS", 0),
		APIBreakerEnabled:  mustEnvBool("API_BREAKER_ENABLED", true),

		StagingDir:     mustEnv("STAGING_DIR", defaultStagingDir()),
		PollIntervalMS: mustEnvInt("POLL_INTERVAL_MS", 1000),
		StagingWatch:   mustEnvBool("STAGING_WATCH", true),

		CategoriesFile: mustEnv("CATEGORIES_FILE", ""),

		HistoryDB: mustEnv("HISTORY_DB", ""),

		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "scans.uploaded"),

		MetricsAddr: mustEnv("METRICS_ADDR", ""),
	}
}

func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return time.Second
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// HTTPTimeout is zero when no client-side limit is configured.
func (c Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func defaultStagingDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "scanned_docs"
	}
	return filepath.Join(home, "scanned_docs")
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
