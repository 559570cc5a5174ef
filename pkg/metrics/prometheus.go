// Package metrics provides Prometheus metrics for the SignalCraft API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus collector exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dashboard payload metrics
	payloadsServed     *prometheus.CounterVec
	metricsSubmissions prometheus.Counter
	validationFailures *prometheus.CounterVec

	// Site metrics
	pagesServed       *prometheus.CounterVec
	staticFilesServed prometheus.Counter
	staticNotFound    prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec
	panicsRecovered     prometheus.Counter

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "signalcraft",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval reports how often gauge-style metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool {
	return m.enabled
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)

	m.payloadsServed = auto.NewCounterVec(
		m.counterOpts("payloads_served_total", "Dashboard payloads served, by dataset"),
		[]string{"dataset"},
	)
	m.metricsSubmissions = auto.NewCounter(
		m.counterOpts("metrics_submissions_total", "Accepted POST /dashboard/metrics requests"),
	)
	m.validationFailures = auto.NewCounterVec(
		m.counterOpts("validation_failures_total", "Rejected request bodies, by endpoint"),
		[]string{"endpoint"},
	)

	m.pagesServed = auto.NewCounterVec(
		m.counterOpts("pages_served_total", "HTML pages served, by page"),
		[]string{"page"},
	)
	m.staticFilesServed = auto.NewCounter(
		m.counterOpts("static_files_served_total", "Requests handled by the /static file server"),
	)
	m.staticNotFound = auto.NewCounter(
		m.counterOpts("static_not_found_total", "Static or page lookups that found no file"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpInFlight = auto.NewGauge(
		m.gaugeOpts("http_requests_in_flight", "HTTP requests currently being served"),
	)

	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)
	m.panicsRecovered = auto.NewCounter(
		m.counterOpts("panics_recovered_total", "Handler panics recovered by the server"),
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Default returns the process-wide manager backing the package helpers.
func Default() *Manager {
	return globalManager
}

// Configure replaces the process-wide manager with one built from opts on a
// fresh registry, which GetRegistry then returns. Call it during startup,
// before requests are served.
func Configure(opts ...Option) *Manager {
	registry := prometheus.NewRegistry()
	m := NewManager(append([]Option{WithPrometheusRegistry(registry)}, opts...)...)
	customRegistry = registry
	globalManager = m
	return m
}

// RecordPayloadServed counts a dashboard payload response.
func RecordPayloadServed(dataset string) {
	if !globalManager.enabled {
		return
	}
	globalManager.payloadsServed.WithLabelValues(dataset).Inc()
}

// RecordMetricsSubmission counts an accepted metrics submission.
func RecordMetricsSubmission() {
	if !globalManager.enabled {
		return
	}
	globalManager.metricsSubmissions.Inc()
}

// RecordValidationFailure counts a rejected request body.
func RecordValidationFailure(endpoint string) {
	if !globalManager.enabled {
		return
	}
	globalManager.validationFailures.WithLabelValues(endpoint).Inc()
}

// RecordPageServed counts an HTML page response.
func RecordPageServed(page string) {
	if !globalManager.enabled {
		return
	}
	globalManager.pagesServed.WithLabelValues(page).Inc()
}

// RecordStaticFileServed counts a request reaching the static file server.
func RecordStaticFileServed() {
	if !globalManager.enabled {
		return
	}
	globalManager.staticFilesServed.Inc()
}

// RecordStaticNotFound counts a page or asset lookup that found nothing.
func RecordStaticNotFound() {
	if !globalManager.enabled {
		return
	}
	globalManager.staticNotFound.Inc()
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// IncHTTPInFlight marks a request as started.
func IncHTTPInFlight() {
	if !globalManager.enabled {
		return
	}
	globalManager.httpInFlight.Inc()
}

// DecHTTPInFlight marks a request as finished.
func DecHTTPInFlight() {
	if !globalManager.enabled {
		return
	}
	globalManager.httpInFlight.Dec()
}

// RecordErrorByType increments the error counter by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint increments the error counter for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// RecordPanicRecovered counts a recovered handler panic.
func RecordPanicRecovered() {
	if !globalManager.enabled {
		return
	}
	globalManager.panicsRecovered.Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
