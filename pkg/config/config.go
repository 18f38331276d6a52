package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Parameter configuration
	Params ParamsConfig

	// Snapshot persistence
	Snapshot SnapshotConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ParamsConfig holds parameter container and manifest settings
type ParamsConfig struct {
	// Lookup cache entries per container, 0 disables the cache
	CacheSize int

	// Manifest files, merged in order
	ManifestPaths []string

	WatchManifest bool
}

// SnapshotConfig holds parameter snapshot persistence settings
type SnapshotConfig struct {
	// Backend is "", "redis", "sqlite3" or "postgres". Empty disables snapshots.
	Backend string
	DSN     string
	Name    string

	// Cron schedule for periodic saves. Empty ("off" in the environment)
	// saves only at shutdown.
	Schedule string

	// Restore the saved snapshot at startup
	Restore bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Metrics
	MetricsEnabled bool

	// Live-object tracking for leak checks
	TrackObjects bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Params:        loadParamsConfig(),
		Snapshot:      loadSnapshotConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            getEnv("VISUAL_HTTP_ADDR", ":8090"),
		ReadTimeout:     getEnvDuration("VISUAL_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("VISUAL_WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getEnvDuration("VISUAL_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// loadParamsConfig loads parameter configuration from environment
func loadParamsConfig() ParamsConfig {
	return ParamsConfig{
		CacheSize:     getEnvInt("VISUAL_PARAM_CACHE_SIZE", 64),
		ManifestPaths: getEnvList("VISUAL_MANIFEST_PATH"),
		WatchManifest: getEnvBool("VISUAL_WATCH_MANIFEST", false),
	}
}

// loadSnapshotConfig loads snapshot configuration from environment
func loadSnapshotConfig() SnapshotConfig {
	schedule := getEnv("VISUAL_SNAPSHOT_SCHEDULE", "@every 5m")
	if strings.EqualFold(schedule, "off") {
		schedule = ""
	}

	return SnapshotConfig{
		Backend:  strings.ToLower(getEnv("VISUAL_SNAPSHOT_BACKEND", "")),
		DSN:      getEnv("VISUAL_SNAPSHOT_DSN", ""),
		Name:     getEnv("VISUAL_SNAPSHOT_NAME", "default"),
		Schedule: schedule,
		Restore:  getEnvBool("VISUAL_SNAPSHOT_RESTORE", true),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       strings.ToLower(getEnv("VISUAL_LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnv("VISUAL_LOG_FORMAT", "text")),
		MetricsEnabled: getEnvBool("VISUAL_METRICS_ENABLED", true),
		TrackObjects:   getEnvBool("VISUAL_TRACK_OBJECTS", false),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	// Validate params config
	if c.Params.CacheSize < 0 {
		return fmt.Errorf("param cache size must not be negative: %d", c.Params.CacheSize)
	}
	if c.Params.WatchManifest {
		if len(c.Params.ManifestPaths) != 1 {
			return fmt.Errorf("watching requires exactly one manifest path, got %d", len(c.Params.ManifestPaths))
		}
	}

	// Validate snapshot config
	switch c.Snapshot.Backend {
	case "":
	case "redis", "sqlite3", "postgres":
		if c.Snapshot.DSN == "" {
			return fmt.Errorf("snapshot backend %s requires a DSN", c.Snapshot.Backend)
		}
		if c.Snapshot.Name == "" {
			return fmt.Errorf("snapshot name is required")
		}
	default:
		return fmt.Errorf("invalid snapshot backend: %s (must be redis, sqlite3, or postgres)", c.Snapshot.Backend)
	}

	// Validate observability config
	switch c.Observability.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be trace, debug, info, warn, or error)", c.Observability.LogLevel)
	}
	switch c.Observability.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Observability.LogFormat)
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList returns the non-empty comma separated items of an environment
// variable
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
