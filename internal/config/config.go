// Package config provides process settings from environment variables and
// the layered generation parameters read from config files, flags and
// manifests.
package config

import (
	"os"
	"strconv"
	"time"
)

// Process defaults
const (
	DefaultWorkersValue        = 8
	DefaultQueryCacheSizeValue = 128
	DefaultCommandTimeoutMs    = 30000
)

// Config holds process-wide settings that are not part of generation params.
type Config struct {
	Workers        int           // LAYJ_WORKERS, default 8
	QueryCacheSize int           // LAYJ_QUERY_CACHE_SIZE, default 128
	CommandTimeout time.Duration // LAYJ_COMMAND_TIMEOUT_MS, default 30000ms (30s)

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Workers:        getEnvInt("LAYJ_WORKERS", DefaultWorkersValue),
		QueryCacheSize: getEnvInt("LAYJ_QUERY_CACHE_SIZE", DefaultQueryCacheSizeValue),
		CommandTimeout: getEnvDurationMs("LAYJ_COMMAND_TIMEOUT_MS", DefaultCommandTimeoutMs),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
