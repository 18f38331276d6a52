// Package observability provides structured logging, Prometheus metrics,
// health checks and shutdown handling.
//
// # Overview
//
// The core packages (object, list, param) log through a package-wide logrus
// logger and report to an optional, globally installed Metrics value. Both
// default to something safe: an info level text logger on stderr and no
// metrics at all.
//
// # Structured Logging
//
// Create and install a logger:
//
//	logger := observability.NewLogger(logrus.DebugLevel, observability.FormatJSON, os.Stderr)
//	observability.SetLogger(logger)
//
//	observability.Log().WithField("param", "width").Info("param set")
//
// # Prometheus Metrics
//
// Register collectors and install them for the core packages:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	observability.SetMetrics(metrics)
//
//	http.Handle("/metrics", observability.MetricsHandler(registry))
//
// Metric methods are nil-safe, so code reports unconditionally:
//
//	observability.DefaultMetrics().ListOperation("chain")
//
// # Health Checks
//
//	checker := observability.NewHealthChecker()
//	checker.Register("params", func(ctx context.Context) error { return nil })
//	http.Handle("/healthz", checker)
//
// # Related Packages
//
//   - pkg/config: Observability configuration
//   - cmd/visparam: Wires all of the above
package observability
