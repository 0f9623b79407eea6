// Package metrics provides Prometheus metrics for the nextalbum service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ranking
	rankingPasses   prometheus.Counter
	rankingDuration prometheus.Histogram
	rankedAlbums    prometheus.Gauge
	rankedTracks    prometheus.Gauge
	excludedFlagged prometheus.Gauge

	// Browsing
	cursorMoves   *prometheus.CounterVec
	enrichments   *prometheus.CounterVec
	enrichLatency prometheus.Histogram
	exclusions    prometheus.Counter

	// Collaborators
	collaboratorErrors  *prometheus.CounterVec
	collaboratorLatency *prometheus.HistogramVec

	// Library scans
	scannedFiles *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
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
		namespace:        "nextalbum",
		subsystem:        "browser",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.rankingPasses = auto.NewCounter(m.counterOpts(
		"ranking_passes_total", "Total number of full ranking passes"))
	m.rankingDuration = auto.NewHistogram(m.histogramOpts(
		"ranking_duration_milliseconds", "Duration of a full ranking pass in milliseconds"))
	m.rankedAlbums = auto.NewGauge(m.gaugeOpts(
		"ranked_albums", "Albums in the current ranked sequence"))
	m.rankedTracks = auto.NewGauge(m.gaugeOpts(
		"ranked_tracks", "Tracks in the batch of the last ranking pass"))
	m.excludedFlagged = auto.NewGauge(m.gaugeOpts(
		"excluded_albums_flagged", "Albums flagged as excluded in the last ranking pass"))

	m.cursorMoves = auto.NewCounterVec(m.counterOpts(
		"cursor_moves_total", "Cursor movements by direction"),
		[]string{"direction"})
	m.enrichments = auto.NewCounterVec(m.counterOpts(
		"enrichments_total", "Album detail enrichments by outcome"),
		[]string{"outcome"})
	m.enrichLatency = auto.NewHistogram(m.histogramOpts(
		"enrichment_latency_milliseconds", "Album detail fetch latency in milliseconds"))
	m.exclusions = auto.NewCounter(m.counterOpts(
		"exclusions_total", "Albums added to the exclusion list"))

	m.collaboratorErrors = auto.NewCounterVec(m.counterOpts(
		"collaborator_errors_total", "Failures returned by library and storage collaborators"),
		[]string{"component", "error_type"})
	m.collaboratorLatency = auto.NewHistogramVec(m.histogramOpts(
		"collaborator_latency_milliseconds", "Collaborator call latency in milliseconds"),
		[]string{"component", "operation"})

	m.scannedFiles = auto.NewCounterVec(m.counterOpts(
		"library_scanned_files_total", "Audio files visited by the library scanner by outcome"),
		[]string{"outcome"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})
	m.httpErrors = auto.NewCounterVec(m.counterOpts(
		"http_errors_total", "HTTP error responses by endpoint and error type"),
		[]string{"endpoint", "error_type"})
}

// RecordRankingPass records one full ranking pass and the resulting sequence size.
func RecordRankingPass(durationMs float64, tracks, albums, excluded int) {
	globalManager.rankingPasses.Inc()
	globalManager.rankingDuration.Observe(durationMs)
	globalManager.rankedTracks.Set(float64(tracks))
	globalManager.rankedAlbums.Set(float64(albums))
	globalManager.excludedFlagged.Set(float64(excluded))
}

// UpdateRankedAlbums sets the size of the current ranked sequence.
func UpdateRankedAlbums(count int) {
	globalManager.rankedAlbums.Set(float64(count))
}

// RecordCursorMove increments the cursor move counter for a direction
// ("next", "prev" or "remove").
func RecordCursorMove(direction string) {
	globalManager.cursorMoves.WithLabelValues(direction).Inc()
}

// RecordEnrichment records an enrichment attempt. Outcome is one of
// "fetched", "cached", "empty" or "error".
func RecordEnrichment(outcome string) {
	globalManager.enrichments.WithLabelValues(outcome).Inc()
}

// RecordEnrichmentLatency records the latency of an album detail fetch.
func RecordEnrichmentLatency(latencyMs float64) {
	globalManager.enrichLatency.Observe(latencyMs)
}

// RecordExclusion increments the exclusion counter.
func RecordExclusion() {
	globalManager.exclusions.Inc()
}

// RecordCollaboratorError records a failure from a library or storage collaborator.
func RecordCollaboratorError(component, errorType string) {
	globalManager.collaboratorErrors.WithLabelValues(component, errorType).Inc()
}

// RecordCollaboratorLatency records the latency of a collaborator call.
func RecordCollaboratorLatency(component, operation string, latencyMs float64) {
	globalManager.collaboratorLatency.WithLabelValues(component, operation).Observe(latencyMs)
}

// RecordScannedFile records a file visited by the library scanner.
func RecordScannedFile(outcome string) {
	globalManager.scannedFiles.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
