package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/visual/pkg/async"
	"github.com/platinummonkey/visual/pkg/config"
	"github.com/platinummonkey/visual/pkg/httputil"
	"github.com/platinummonkey/visual/pkg/object"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/param"
	"github.com/platinummonkey/visual/pkg/paramapi"
	"github.com/platinummonkey/visual/pkg/snapshot"
	"github.com/platinummonkey/visual/pkg/verrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// defaultManifest holds the player options used when no manifest is
// configured.
const defaultManifest = `params:
  - name: last_plugin
    description: Visualization plugin shown at startup
    type: string
    default: oinksie
  - name: icon_file
    description: Window icon
    type: string
    default: ""
  - name: width
    description: Window width in pixels
    type: int
    default: 320
  - name: height
    description: Window height in pixels
    type: int
    default: 200
  - name: fps
    description: Frame rate limit
    type: int
    default: 30
  - name: depth
    description: Color depth in bits
    type: int
    default: 24
  - name: fullscreen
    description: Start in fullscreen mode
    type: int
    default: 0
`

// visparam serves plugin parameters loaded from YAML manifests
func main() {
	dump := flag.String("dump", "", "Write the loaded parameters as a manifest to this file (- for stdout) and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logger
	logger := observability.NewLogger(
		observability.ParseLevel(cfg.Observability.LogLevel),
		observability.LogFormat(cfg.Observability.LogFormat),
		os.Stderr,
	)
	observability.SetLogger(logger)
	logger.Info("Starting visparam")

	object.EnableTracking(cfg.Observability.TrackObjects)

	registry := prometheus.NewRegistry()
	if cfg.Observability.MetricsEnabled {
		observability.SetMetrics(observability.NewMetrics(registry))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manifest, err := loadManifest(ctx, cfg.Params.ManifestPaths)
	if err != nil {
		logger.Fatalf("Failed to load manifest: %v", err)
	}

	params, err := manifest.Container(cfg.Params.CacheSize)
	if err != nil {
		logger.Fatalf("Failed to build parameter container: %v", err)
	}
	logger.WithField("params", params.Len()).Info("Parameters loaded")

	params.OnChange(func(e *param.Entry) {
		logger.WithFields(logrus.Fields{
			"param": e.Name,
			"value": e.Value.String(),
		}).Debug("param changed")
	})

	handlers := paramapi.NewHandlers(params, logger)

	var store snapshot.Store
	if cfg.Snapshot.Backend != "" {
		store, err = snapshot.Open(ctx, cfg.Snapshot.Backend, cfg.Snapshot.DSN)
		if err != nil {
			logger.Fatalf("Failed to open snapshot store: %v", err)
		}
		if cfg.Snapshot.Restore {
			restoreSnapshot(ctx, store, cfg.Snapshot.Name, handlers, logger)
		}
	}

	if *dump != "" {
		code := dumpManifest(handlers, *dump, os.Stdout, logger)
		if store != nil {
			store.Close()
		}
		os.Exit(code)
	}

	health := observability.NewHealthChecker()
	health.Register("params", handlers.Check)

	router := mux.NewRouter()
	handlers.RegisterRoutes(router)
	router.Handle("/healthz", health).Methods("GET")
	if cfg.Observability.MetricsEnabled {
		router.Handle("/metrics", observability.MetricsHandler(registry)).Methods("GET")
	}

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httputil.Chain(
			httputil.RequestIDMiddleware,
			httputil.LoggingMiddleware(logger),
			httputil.RecoveryMiddleware(logger),
			httputil.MaxBytesMiddleware(1<<20),
		)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, server, cfg.Server.ShutdownTimeout)

	if cfg.Params.WatchManifest {
		watcher, err := param.NewWatcher(cfg.Params.ManifestPaths[0], logger)
		if err != nil {
			logger.Fatalf("Failed to watch manifest: %v", err)
		}
		async.SafeGo(ctx, 0, "manifest watcher", logger, func(ctx context.Context) error {
			if err := watcher.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		async.SafeGoNoError(ctx, 0, "manifest updates", logger, func(context.Context) {
			applyUpdates(watcher.Updates(), handlers, logger)
		})

		shutdown.RegisterShutdownFunc(func(context.Context) error {
			cancel()
			return watcher.Close()
		})
		logger.WithField("path", cfg.Params.ManifestPaths[0]).Info("Watching manifest for changes")
	}

	if store != nil {
		if err := scheduleSnapshots(cfg.Snapshot, store, handlers, shutdown, logger); err != nil {
			logger.Fatalf("Failed to schedule snapshots: %v", err)
		}
	}

	shutdown.RegisterShutdownFunc(func(context.Context) error {
		if err := handlers.Close(); err != nil {
			return err
		}
		if object.TrackingEnabled() {
			logger.WithField("live_objects", object.LiveCount()).Info("Objects still referenced at shutdown")
		}
		return nil
	})

	go func() {
		logger.Infof("Listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("HTTP server error: %v", err)
			cancel()
		}
	}()

	if err := shutdown.WaitForShutdown(ctx); err != nil {
		logger.Errorf("Shutdown error: %v", err)
		os.Exit(1)
	}
}

// loadManifest merges the configured manifests, or parses the built-in
// defaults when none are configured
func loadManifest(ctx context.Context, paths []string) (*param.Manifest, error) {
	if len(paths) == 0 {
		return param.ParseManifest([]byte(defaultManifest))
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	manifests, err := param.LoadManifests(ctx, paths)
	if err != nil {
		return nil, err
	}
	return param.Merge(manifests...), nil
}

// restoreSnapshot applies the saved snapshot on top of the loaded manifest
func restoreSnapshot(ctx context.Context, store snapshot.Store, name string, handlers *paramapi.Handlers, logger *logrus.Logger) {
	m, err := store.Load(ctx, name)
	if errors.Is(err, verrors.ErrNotFound) {
		logger.WithField("snapshot", name).Info("No snapshot to restore")
		return
	} else if err != nil {
		logger.WithError(err).WithField("snapshot", name).Warn("Failed to load snapshot, keeping manifest values")
		return
	}

	if err := handlers.Apply(m); err != nil {
		logger.WithError(err).WithField("snapshot", name).Warn("Failed to restore snapshot")
		return
	}
	logger.WithFields(logrus.Fields{
		"snapshot": name,
		"params":   len(m.Params),
	}).Info("Restored snapshot")
}

// scheduleSnapshots starts periodic saves and registers the final save and
// store close with shutdown. The final save runs before the container is
// released.
func scheduleSnapshots(cfg config.SnapshotConfig, store snapshot.Store, handlers *paramapi.Handlers, shutdown *observability.ShutdownManager, logger *logrus.Logger) error {
	sched, err := snapshot.NewScheduler(cfg.Schedule, store, cfg.Name, handlers.Snapshot, logger)
	if err != nil {
		return err
	}
	sched.Start()
	if cfg.Schedule != "" {
		logger.WithField("schedule", cfg.Schedule).Info("Scheduled parameter snapshots")
	}

	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		sched.Stop()
		saveErr := sched.SaveNow(ctx)
		return errors.Join(saveErr, store.Close())
	})
	return nil
}

// applyUpdates applies reloaded manifests until the watcher stops
func applyUpdates(updates <-chan *param.Manifest, handlers *paramapi.Handlers, logger *logrus.Logger) {
	for m := range updates {
		if err := handlers.Apply(m); err != nil {
			logger.WithError(err).Error("Failed to apply reloaded manifest")
			continue
		}
		logger.WithField("params", len(m.Params)).Info("Applied reloaded manifest")
	}
}

// dumpManifest writes the served parameters as a manifest and releases the
// container. It returns the process exit code.
func dumpManifest(handlers *paramapi.Handlers, path string, stdout io.Writer, logger *logrus.Logger) int {
	defer handlers.Close()

	snapshot, err := handlers.Snapshot()
	if err != nil {
		logger.Errorf("Failed to snapshot parameters: %v", err)
		return 1
	}

	if path == "-" {
		data, err := param.EncodeManifest(snapshot)
		if err != nil {
			logger.Errorf("Failed to encode manifest: %v", err)
			return 1
		}
		if _, err := stdout.Write(data); err != nil {
			logger.Errorf("Failed to write manifest: %v", err)
			return 1
		}
		return 0
	}

	if err := param.SaveManifest(snapshot, path); err != nil {
		logger.Errorf("Failed to write manifest: %v", err)
		return 1
	}

	logger.WithField("path", path).Info("Parameters written")
	return 0
}
