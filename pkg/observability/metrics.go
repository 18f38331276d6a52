package observability

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Object lifecycle metrics
	ObjectsCreatedTotal   prometheus.Counter
	ObjectsDestroyedTotal prometheus.Counter
	ObjectsLive           prometheus.Gauge

	// Collection metrics
	ListOperationsTotal *prometheus.CounterVec

	// Parameter metrics
	ParamValueSetsTotal  *prometheus.CounterVec
	ParamLookupsTotal    *prometheus.CounterVec
	ManifestReloadsTotal *prometheus.CounterVec

	// Snapshot metrics
	SnapshotOperationsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ObjectsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "visual_objects_created_total",
				Help: "Total number of initialized objects",
			},
		),
		ObjectsDestroyedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "visual_objects_destroyed_total",
				Help: "Total number of objects whose last reference was released",
			},
		),
		ObjectsLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "visual_objects_live",
				Help: "Number of objects currently holding references",
			},
		),

		ListOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visual_list_operations_total",
				Help: "Total number of structural list operations",
			},
			[]string{"operation"},
		),

		ParamValueSetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visual_param_value_sets_total",
				Help: "Total number of parameter value assignments",
			},
			[]string{"type"},
		),
		ParamLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visual_param_lookups_total",
				Help: "Total number of parameter lookups by name",
			},
			[]string{"result"},
		),
		ManifestReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visual_manifest_reloads_total",
				Help: "Total number of parameter manifest reloads",
			},
			[]string{"status"},
		),

		SnapshotOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visual_snapshot_operations_total",
				Help: "Total number of parameter snapshot saves and loads",
			},
			[]string{"operation", "status"},
		),
	}

	registry.MustRegister(
		m.ObjectsCreatedTotal,
		m.ObjectsDestroyedTotal,
		m.ObjectsLive,
		m.ListOperationsTotal,
		m.ParamValueSetsTotal,
		m.ParamLookupsTotal,
		m.ManifestReloadsTotal,
		m.SnapshotOperationsTotal,
	)

	return m
}

var defaultMetrics atomic.Pointer[Metrics]

// SetMetrics installs the metrics the core packages report to.
// Passing nil disables reporting.
func SetMetrics(m *Metrics) {
	defaultMetrics.Store(m)
}

// DefaultMetrics returns the installed metrics, or nil when none are installed
func DefaultMetrics() *Metrics {
	return defaultMetrics.Load()
}

// ObjectCreated records an object initialization
func (m *Metrics) ObjectCreated() {
	if m == nil {
		return
	}
	m.ObjectsCreatedTotal.Inc()
	m.ObjectsLive.Inc()
}

// ObjectDestroyed records an object reaching zero references
func (m *Metrics) ObjectDestroyed() {
	if m == nil {
		return
	}
	m.ObjectsDestroyedTotal.Inc()
	m.ObjectsLive.Dec()
}

// ListOperation records a structural list operation
func (m *Metrics) ListOperation(op string) {
	if m == nil {
		return
	}
	m.ListOperationsTotal.WithLabelValues(op).Inc()
}

// ParamValueSet records a parameter value assignment of the given type
func (m *Metrics) ParamValueSet(typ string) {
	if m == nil {
		return
	}
	m.ParamValueSetsTotal.WithLabelValues(typ).Inc()
}

// ParamLookup records a lookup result: "hit", "miss" or "cached"
func (m *Metrics) ParamLookup(result string) {
	if m == nil {
		return
	}
	m.ParamLookupsTotal.WithLabelValues(result).Inc()
}

// ManifestReload records a manifest reload with status "success" or "error"
func (m *Metrics) ManifestReload(status string) {
	if m == nil {
		return
	}
	m.ManifestReloadsTotal.WithLabelValues(status).Inc()
}

// SnapshotOperation records a snapshot "save" or "load" with its status
func (m *Metrics) SnapshotOperation(op, status string) {
	if m == nil {
		return
	}
	m.SnapshotOperationsTotal.WithLabelValues(op, status).Inc()
}

// MetricsHandler returns the /metrics handler for registry
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
