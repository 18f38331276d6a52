package param

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce coalesces the burst of events an editor produces when it
// saves a file.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a manifest file whenever it changes and delivers the
// result on Updates. It never touches a Container; the receiver applies
// updates on its own goroutine.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *logrus.Logger

	fs      *fsnotify.Watcher
	updates chan *Manifest
}

// NewWatcher watches the directory holding path so that replace-by-rename
// saves are seen as well.
func NewWatcher(path string, logger *logrus.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   observability.OrDefault(logger),
		fs:       fs,
		updates:  make(chan *Manifest, 1),
	}, nil
}

// SetDebounce changes the quiet period before a reload. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Updates delivers successfully reloaded manifests. It is closed when Run
// returns.
func (w *Watcher) Updates() <-chan *Manifest {
	return w.updates
}

// Run processes file events until ctx is done or the watcher is closed.
// Manifests that fail to load are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer observability.RecoverPanic(w.logger, "manifest watcher")

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.WithFields(logrus.Fields{
				"path": event.Name,
				"op":   event.Op.String(),
			}).Debug("manifest changed")

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload(ctx)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("manifest watcher error")
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	m, err := LoadManifest(w.path)
	if err != nil {
		observability.DefaultMetrics().ManifestReload("error")
		w.logger.WithError(err).WithField("path", w.path).Error("failed to reload manifest")
		return
	}

	observability.DefaultMetrics().ManifestReload("success")
	w.logger.WithFields(logrus.Fields{
		"path":   w.path,
		"params": len(m.Params),
	}).Info("manifest reloaded")

	// Keep only the newest manifest if the receiver is behind
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- m:
	case <-ctx.Done():
	}
}

// Close stops watching. Run returns once the event channels close.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
