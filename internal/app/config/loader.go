package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	defaultHome        = ".taskterm"
	defaultCacheTTL    = 5 * time.Minute
	defaultSearchLimit = 20
	defaultLevel       = "warn"
)

// LoadFromEnv builds the configuration from TASKTERM_* environment
// variables over defaults. Unset variables fall back; malformed numeric
// values fall back too, configuration is never a fatal error on a handheld.
func LoadFromEnv() *AppConfig {
	home := envOr("TASKTERM_HOME", defaultHome)

	ttl := defaultCacheTTL
	if raw := os.Getenv("TASKTERM_CACHE_TTL_SEC"); raw != "" {
		if sec, err := strconv.Atoi(raw); err == nil && sec > 0 {
			ttl = time.Duration(sec) * time.Second
		}
	}

	limit := defaultSearchLimit
	if raw := os.Getenv("TASKTERM_SEARCH_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	return NewAppConfig(
		home,
		envOr("TASKTERM_REFERENCE_DB", filepath.Join(home, "reference.db")),
		envOr("TASKTERM_SNAPSHOT", filepath.Join(home, "task.yaml")),
		envOr("TASKTERM_JOURNAL", filepath.Join(home, "facts.yaml")),
		ttl,
		limit,
		envOr("TASKTERM_STDERR_LEVEL", defaultLevel),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
