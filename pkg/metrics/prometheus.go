// Package metrics provides Prometheus metrics for the strain pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics
	samplesIngested   *prometheus.CounterVec
	messagesMalformed *prometheus.CounterVec
	windowFill        *prometheus.GaugeVec

	// Decision cycle metrics
	triggersReceived   prometheus.Counter
	decisionCycles     *prometheus.CounterVec
	extractionFailures prometheus.Counter
	predictionFailures prometheus.Counter
	predictionLatency  prometheus.Histogram

	// Dispatch metrics
	dispatchSent     prometheus.Counter
	dispatchDropped  prometheus.Counter
	dispatchFailures prometheus.Counter

	// Archive metrics
	archiveUploads prometheus.Counter
	archiveErrors  prometheus.Counter

	// Transport metrics
	wsConnections       *prometheus.GaugeVec
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "strain",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.samplesIngested = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "samples_ingested_total",
			Help:      "Total number of sensor samples appended, by stream",
		},
		[]string{"stream"},
	)

	m.messagesMalformed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "messages_malformed_total",
			Help:      "Total number of transport messages that failed to decode",
		},
		[]string{"kind"},
	)

	m.windowFill = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "window_fill",
			Help:      "Current number of samples held in each window",
		},
		[]string{"stream"},
	)

	m.triggersReceived = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "triggers_received_total",
		Help:      "Total number of fatigue triggers received",
	})

	m.decisionCycles = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "decision_cycles_total",
			Help:      "Total number of completed decision cycles, by resulting mode",
		},
		[]string{"mode"},
	)

	m.extractionFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_failures_total",
		Help:      "Total number of feature extraction validation failures",
	})

	m.predictionFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_failures_total",
		Help:      "Total number of classifier invocation failures",
	})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_latency_milliseconds",
		Help:      "Histogram of classifier prediction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.dispatchSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_sent_total",
		Help:      "Total number of modes delivered to the control channel",
	})

	m.dispatchDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_dropped_total",
		Help:      "Total number of modes decided with no control channel attached",
	})

	m.dispatchFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_failures_total",
		Help:      "Total number of control channel send failures",
	})

	m.archiveUploads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_uploads_total",
		Help:      "Total number of CSV archives uploaded",
	})

	m.archiveErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "archive_errors_total",
		Help:      "Total number of CSV archive failures",
	})

	m.wsConnections = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "ws_connections",
			Help:      "Current number of websocket connections, by endpoint",
		},
		[]string{"endpoint"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordSampleIngested increments the ingested-samples counter for a stream.
func RecordSampleIngested(stream string) {
	globalManager.samplesIngested.WithLabelValues(stream).Inc()
}

// RecordMalformedMessage increments the malformed-message counter for a kind.
func RecordMalformedMessage(kind string) {
	globalManager.messagesMalformed.WithLabelValues(kind).Inc()
}

// UpdateWindowFill sets the current fill level of a window.
func UpdateWindowFill(stream string, size int) {
	globalManager.windowFill.WithLabelValues(stream).Set(float64(size))
}

// RecordTrigger increments the trigger counter.
func RecordTrigger() {
	globalManager.triggersReceived.Inc()
}

// RecordDecisionCycle increments the decision cycle counter for a mode.
func RecordDecisionCycle(mode string) {
	globalManager.decisionCycles.WithLabelValues(mode).Inc()
}

// RecordExtractionFailure increments the extraction failure counter.
func RecordExtractionFailure() {
	globalManager.extractionFailures.Inc()
}

// RecordPredictionFailure increments the prediction failure counter.
func RecordPredictionFailure() {
	globalManager.predictionFailures.Inc()
}

// RecordPredictionLatency records classifier latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) {
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordDispatchSent increments the dispatch-sent counter.
func RecordDispatchSent() {
	globalManager.dispatchSent.Inc()
}

// RecordDispatchDropped increments the dispatch-dropped counter.
func RecordDispatchDropped() {
	globalManager.dispatchDropped.Inc()
}

// RecordDispatchFailure increments the dispatch failure counter.
func RecordDispatchFailure() {
	globalManager.dispatchFailures.Inc()
}

// RecordArchiveUpload increments the archive upload counter.
func RecordArchiveUpload() {
	globalManager.archiveUploads.Inc()
}

// RecordArchiveError increments the archive error counter.
func RecordArchiveError() {
	globalManager.archiveErrors.Inc()
}

// UpdateWSConnections sets the websocket connection gauge for an endpoint.
func UpdateWSConnections(endpoint string, n int) {
	globalManager.wsConnections.WithLabelValues(endpoint).Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
