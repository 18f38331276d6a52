// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration for the visparam host from
// environment variables with sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	VISUAL_HTTP_ADDR=":8090"
//	VISUAL_READ_TIMEOUT="15s"
//	VISUAL_WRITE_TIMEOUT="15s"
//	VISUAL_SHUTDOWN_TIMEOUT="10s"
//
// Parameter settings:
//
//	VISUAL_PARAM_CACHE_SIZE="64"  # 0 disables the lookup cache
//	VISUAL_MANIFEST_PATH="base.yaml,local.yaml"
//	VISUAL_WATCH_MANIFEST="false"  # needs exactly one manifest path
//
// Observability settings:
//
//	VISUAL_LOG_LEVEL="info"  # trace, debug, info, warn, error
//	VISUAL_LOG_FORMAT="text"  # text, json
//	VISUAL_METRICS_ENABLED="true"
//	VISUAL_TRACK_OBJECTS="false"
//
// # Usage Example
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Listening on %s\n", cfg.Server.Addr)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/observability: Uses observability configuration
//   - pkg/param: Uses parameter configuration
package config
