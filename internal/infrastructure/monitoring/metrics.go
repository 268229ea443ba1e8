package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// State metrics
	StateMutations *prometheus.CounterVec
	UndoDepth      prometheus.Gauge

	// Batch metrics
	BatchItems   *prometheus.CounterVec
	BatchRuns    prometheus.Counter
	BatchRunTime prometheus.Histogram

	// Workflow metrics
	WorkflowPhase *prometheus.GaugeVec

	// Theme library metrics
	ThemesSaved  prometheus.Counter
	ThemesLoaded prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for the JSON stats endpoint
type Snapshot struct {
	TotalRequests     int64   `json:"totalRequests"`
	TotalErrors       int64   `json:"totalErrors"`
	ActiveConnections int64   `json:"activeConnections"`
	TotalDuration     float64 `json:"-"` // sum of all request durations
	RequestCount      int64   `json:"-"` // count for averaging
	AvgDurationMs     float64 `json:"avgDurationMs"`
	UptimeSeconds     float64 `json:"uptimeSeconds"`
}

// NewMetrics creates a new metrics collector. Each collector owns its
// registry, so independent instances never collide.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry:  registry,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hueweave_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hueweave_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hueweave_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hueweave_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// State metrics
		StateMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hueweave_state_mutations_total",
				Help: "Total number of theme state mutations by kind",
			},
			[]string{"kind"},
		),
		UndoDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hueweave_history_undo_depth",
				Help: "Number of snapshots available to undo",
			},
		),

		// Batch metrics
		BatchItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hueweave_batch_items_total",
				Help: "Total number of processed batch items by outcome",
			},
			[]string{"status"},
		),
		BatchRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hueweave_batch_runs_total",
				Help: "Total number of completed batch runs",
			},
		),
		BatchRunTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hueweave_batch_run_duration_seconds",
				Help:    "Duration of completed batch runs in seconds",
				Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
		),

		// Workflow metrics
		WorkflowPhase: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hueweave_workflow_phase",
				Help: "Current workflow phase (1 for the active phase, 0 otherwise)",
			},
			[]string{"phase"},
		),

		// Theme library metrics
		ThemesSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hueweave_themes_saved_total",
				Help: "Total number of themes saved to the library",
			},
		),
		ThemesLoaded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hueweave_themes_loaded_total",
				Help: "Total number of themes loaded from the library",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hueweave_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hueweave_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "hueweave_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// Registry exposes the collector's registry for the metrics endpoint
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordStateMutation records a theme state mutation by kind
func (m *Metrics) RecordStateMutation(kind string) {
	m.StateMutations.WithLabelValues(kind).Inc()
}

// SetUndoDepth sets the number of snapshots available to undo
func (m *Metrics) SetUndoDepth(depth int) {
	m.UndoDepth.Set(float64(depth))
}

// RecordBatchItem records one processed batch item outcome
func (m *Metrics) RecordBatchItem(status string) {
	m.BatchItems.WithLabelValues(status).Inc()
}

// ObserveBatchRun records a completed batch run
func (m *Metrics) ObserveBatchRun(duration time.Duration) {
	m.BatchRuns.Inc()
	m.BatchRunTime.Observe(duration.Seconds())
}

// SetWorkflowPhase marks the given phase as active
func (m *Metrics) SetWorkflowPhase(phase string) {
	for _, p := range []string{"idle", "selecting", "processing", "comparing"} {
		v := 0.0
		if p == phase {
			v = 1.0
		}
		m.WorkflowPhase.WithLabelValues(p).Set(v)
	}
}

// IncThemesSaved increments the themes saved counter
func (m *Metrics) IncThemesSaved() {
	m.ThemesSaved.Inc()
}

// IncThemesLoaded increments the themes loaded counter
func (m *Metrics) IncThemesLoaded() {
	m.ThemesLoaded.Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// GetSnapshot returns current metric values for the JSON stats endpoint
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()

	if s.RequestCount > 0 {
		s.AvgDurationMs = s.TotalDuration / float64(s.RequestCount) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
