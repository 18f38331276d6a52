package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// CheckFunc reports the health of one component. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// HealthChecker aggregates named component checks
type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentStatus `json:"components,omitempty"`
}

// ComponentStatus represents the health of a single component
type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]CheckFunc),
	}
}

// Register adds or replaces a named check
func (h *HealthChecker) Register(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Check runs every registered check in name order
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	checks := make(map[string]CheckFunc, len(h.checks))
	for name, check := range h.checks {
		names = append(names, name)
		checks[name] = check
	}
	h.mu.RUnlock()

	sort.Strings(names)

	status := HealthStatus{
		Status:     StatusHealthy,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentStatus, len(names)),
	}

	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Components[name] = ComponentStatus{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Components[name] = ComponentStatus{Status: StatusHealthy}
	}

	return status
}

// ServeHTTP writes the health status as JSON, 503 when any check fails
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if status.Status != StatusHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(status)
}
