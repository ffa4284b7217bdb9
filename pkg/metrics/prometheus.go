package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for cache lookups.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Label values for display-name resolution outcomes.
const (
	ResolveCached   = "cached"
	ResolveFetched  = "fetched"
	ResolveNoUser   = "no_content"
	ResolveFailed   = "failed"
	ResolveFallback = "fallback"
)

// Manager manages all Prometheus metrics for the Academy service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Ranking
	categoryScanLatency  *prometheus.HistogramVec
	compositeLatency     prometheus.Histogram
	compositeRecomputes  prometheus.Counter
	compositeErrors      prometheus.Counter
	populationSize       prometheus.Gauge
	cacheLookups         *prometheus.CounterVec
	skippedRecords       *prometheus.CounterVec
	nameResolutions      *prometheus.CounterVec
	nameResolveLatency   prometheus.Histogram
	collectionScanRecord *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	panicsRecovered     prometheus.Counter

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "academy",
		subsystem:        "ranks",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
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
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.categoryScanLatency = auto.NewHistogramVec(
		m.histogramOpts("category_scan_latency_milliseconds", "Time to compute raw scores for one category"),
		[]string{"category"},
	)

	m.compositeLatency = auto.NewHistogram(
		m.histogramOpts("composite_recompute_latency_milliseconds", "Time to recompute the full composite ranking"),
	)

	m.compositeRecomputes = auto.NewCounter(
		m.counterOpts("composite_recompute_total", "Number of composite ranking recomputations"),
	)

	m.compositeErrors = auto.NewCounter(
		m.counterOpts("composite_errors_total", "Number of failed composite computations"),
	)

	m.populationSize = auto.NewGauge(
		m.gaugeOpts("population_size", "Players in the last composite ranking"),
	)

	m.cacheLookups = auto.NewCounterVec(
		m.counterOpts("cache_lookups_total", "Cache lookups by key and result"),
		[]string{"key", "result"},
	)

	m.skippedRecords = auto.NewCounterVec(
		m.counterOpts("skipped_records_total", "Records skipped at decode time"),
		[]string{"collection", "reason"},
	)

	m.collectionScanRecord = auto.NewCounterVec(
		m.counterOpts("collection_records_read_total", "Documents read from a collection"),
		[]string{"collection"},
	)

	m.nameResolutions = auto.NewCounterVec(
		m.counterOpts("name_resolutions_total", "Display-name resolutions by outcome"),
		[]string{"outcome"},
	)

	m.nameResolveLatency = auto.NewHistogram(
		m.histogramOpts("name_resolve_latency_milliseconds", "Latency of upstream display-name lookups"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.panicsRecovered = auto.NewCounter(
		m.counterOpts("panics_recovered_total", "Handler panics recovered by middleware"),
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use in bytes"),
	)

	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordCategoryScan records how long computing one category took.
func RecordCategoryScan(category string, d time.Duration) {
	globalManager.categoryScanLatency.WithLabelValues(category).Observe(millis(d))
}

// RecordCompositeRecompute records a composite recomputation and the
// resulting population size.
func RecordCompositeRecompute(d time.Duration, population int) {
	globalManager.compositeRecomputes.Inc()
	globalManager.compositeLatency.Observe(millis(d))
	globalManager.populationSize.Set(float64(population))
}

// RecordCompositeError increments the composite failure counter.
func RecordCompositeError() {
	globalManager.compositeErrors.Inc()
}

// RecordCacheLookup counts a cache hit or miss for key.
func RecordCacheLookup(key string, hit bool) {
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	globalManager.cacheLookups.WithLabelValues(key, result).Inc()
}

// RecordSkippedRecord counts a document dropped by the decoder.
func RecordSkippedRecord(collection, reason string) {
	globalManager.skippedRecords.WithLabelValues(collection, reason).Inc()
}

// RecordCollectionRead counts documents read from a collection.
func RecordCollectionRead(collection string, n int) {
	globalManager.collectionScanRecord.WithLabelValues(collection).Add(float64(n))
}

// RecordNameResolution counts a display-name resolution outcome.
func RecordNameResolution(outcome string) {
	globalManager.nameResolutions.WithLabelValues(outcome).Inc()
}

// RecordNameResolveLatency records the latency of an upstream lookup.
func RecordNameResolveLatency(d time.Duration) {
	globalManager.nameResolveLatency.Observe(millis(d))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordPanicRecovered increments the recovered panic counter.
func RecordPanicRecovered() {
	globalManager.panicsRecovered.Inc()
}

// UpdateSystemMetrics samples memory and goroutine gauges.
func UpdateSystemMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
