package observability

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// ShutdownManager handles graceful shutdown of a parameter host
type ShutdownManager struct {
	logger          *logrus.Logger
	server          *http.Server
	shutdownFuncs   []ShutdownFunc
	shutdownTimeout time.Duration
	mu              sync.Mutex
}

// ShutdownFunc is a function to call during shutdown
type ShutdownFunc func(context.Context) error

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager(logger *logrus.Logger, server *http.Server, timeout time.Duration) *ShutdownManager {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &ShutdownManager{
		logger:          OrDefault(logger),
		server:          server,
		shutdownFuncs:   make([]ShutdownFunc, 0),
		shutdownTimeout: timeout,
	}
}

// RegisterShutdownFunc registers a function to call during shutdown.
// Functions run in registration order.
func (sm *ShutdownManager) RegisterShutdownFunc(fn ShutdownFunc) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.shutdownFuncs = append(sm.shutdownFuncs, fn)
}

// WaitForShutdown blocks until SIGINT/SIGTERM or ctx is done, then shuts down
func (sm *ShutdownManager) WaitForShutdown(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		sm.logger.Infof("Received signal %s, starting graceful shutdown", sig)
	case <-ctx.Done():
		sm.logger.Info("Context cancelled, starting graceful shutdown")
	}

	return sm.Shutdown()
}

// Shutdown stops the HTTP server and runs the registered functions.
// Functions run sequentially because the objects they release are not
// safe for concurrent use.
func (sm *ShutdownManager) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), sm.shutdownTimeout)
	defer cancel()

	if sm.server != nil {
		sm.logger.Info("Shutting down HTTP server")
		if err := sm.server.Shutdown(ctx); err != nil {
			sm.logger.WithError(err).Error("HTTP server shutdown error")
			return fmt.Errorf("HTTP server shutdown failed: %w", err)
		}
	}

	sm.mu.Lock()
	funcs := sm.shutdownFuncs
	sm.mu.Unlock()

	var failed int
	for i, fn := range funcs {
		if ctx.Err() != nil {
			sm.logger.Warn("Shutdown timeout reached, skipping remaining functions")
			return fmt.Errorf("shutdown timeout reached")
		}
		if err := fn(ctx); err != nil {
			sm.logger.WithError(err).Errorf("Shutdown function %d failed", i)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("shutdown completed with %d errors", failed)
	}

	sm.logger.Info("Graceful shutdown complete")
	return nil
}
