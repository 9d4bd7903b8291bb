// Package metrics provides Prometheus metrics for the nenet ranked list engine.
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

// Manager manages all Prometheus metrics for the nenet service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - rank mutations are the hot path
	rankMutations       *prometheus.CounterVec
	rankMutationLatency prometheus.Histogram
	rankConflicts       prometheus.Counter
	votesCast           prometheus.Counter

	// Snapshot Metrics - list version creation
	snapshotsCreated     prometheus.Counter
	snapshotBuildLatency prometheus.Histogram

	// Statistics Metrics - per-item aggregate recomputation
	statsRecomputes       prometheus.Counter
	statsRecomputeLatency prometheus.Histogram
	statsCoalesced        prometheus.Counter

	// Trending Metrics - feed refresh cycle
	trendingRefreshes       prometheus.Counter
	trendingRefreshDuration prometheus.Histogram
	trendingFeedSize        prometheus.Gauge
	trendingLastRefreshUnix prometheus.Gauge

	// Operational Health Metrics
	totalLists prometheus.Gauge
	totalItems prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository Metrics
	repositoryQueryLatency prometheus.Histogram

	// Queue Metrics - recompute job queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueueRate prometheus.Counter
	queueDequeueRate prometheus.Counter
	queueDropped     prometheus.Counter

	// Worker Metrics - recompute workers
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Error Metrics - per-component error tracking
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nenet",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics - what the engine exists to do
	m.rankMutations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rank_mutations_total",
			Help:      "Total number of committed rank mutations by operation",
		},
		[]string{"op"},
	)

	m.rankMutationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_mutation_latency_milliseconds",
		Help:      "Histogram of rank mutation latency in milliseconds (core performance metric)",
		Buckets:   m.histogramBuckets,
	})

	m.rankConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_conflicts_total",
		Help:      "Total number of mutations rejected due to write contention (retryable)",
	})

	m.votesCast = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "votes_cast_total",
		Help:      "Total number of votes cast or replaced",
	})

	// Snapshot Metrics - list version creation
	m.snapshotsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_created_total",
		Help:      "Total number of list version snapshots created",
	})

	m.snapshotBuildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_build_latency_milliseconds",
		Help:      "Snapshot assembly and persist latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Statistics Metrics - aggregate recomputation pipeline
	m.statsRecomputes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "statistics_recomputes_total",
		Help:      "Total number of per-item statistics recomputations",
	})

	m.statsRecomputeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "statistics_recompute_latency_milliseconds",
		Help:      "Statistics recomputation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.statsCoalesced = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "statistics_jobs_coalesced_total",
		Help:      "Total number of recompute jobs collapsed into an already-pending job",
	})

	// Trending Metrics - feed refresh cycle
	m.trendingRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trending_refreshes_total",
		Help:      "Total number of trending feed refreshes",
	})

	m.trendingRefreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trending_refresh_duration_milliseconds",
		Help:      "Trending feed rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.trendingFeedSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trending_feed_size",
		Help:      "Number of entries in the current trending feed",
	})

	m.trendingLastRefreshUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trending_last_refresh_unix",
		Help:      "Unix timestamp of the last trending feed publish",
	})

	// Operational Health Metrics - business scale indicators
	m.totalLists = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_lists",
		Help:      "Total number of ranked lists (business scale)",
	})

	m.totalItems = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_items",
		Help:      "Total number of items in the catalog (business scale)",
	})

	// HTTP Performance Metrics - user experience indicators
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
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Repository Metrics
	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_query_latency_milliseconds",
		Help:      "Repository query operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Queue Metrics - recompute job queue
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the recompute job queue (backlog indicator)",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum recompute queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Queue utilization ratio (current size / capacity)",
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of recompute jobs enqueued",
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of recompute jobs dequeued",
	})

	m.queueDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dropped_total",
		Help:      "Total number of recompute jobs dropped because the queue was full",
	})

	// Worker Metrics - recompute worker performance
	m.workerActiveCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_active_count",
		Help:      "Number of active recompute workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Recompute worker processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrorRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of recompute worker errors",
	})

	// Error Metrics - per-component error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRankMutation increments the rank mutation counter for an operation
// (add, move, remove, compact).
func RecordRankMutation(op string) {
	globalManager.rankMutations.WithLabelValues(op).Inc()
}

// RecordRankMutationLatency records rank mutation latency in milliseconds.
func RecordRankMutationLatency(latencyMs float64) {
	globalManager.rankMutationLatency.Observe(latencyMs)
}

// RecordRankConflict increments the retryable-conflict counter.
func RecordRankConflict() {
	globalManager.rankConflicts.Inc()
}

// RecordVoteCast increments the votes cast counter.
func RecordVoteCast() {
	globalManager.votesCast.Inc()
}

// RecordSnapshotCreated increments the snapshot counter.
func RecordSnapshotCreated() {
	globalManager.snapshotsCreated.Inc()
}

// RecordSnapshotBuildLatency records snapshot build latency in milliseconds.
func RecordSnapshotBuildLatency(latencyMs float64) {
	globalManager.snapshotBuildLatency.Observe(latencyMs)
}

// RecordStatsRecompute increments the statistics recompute counter.
func RecordStatsRecompute() {
	globalManager.statsRecomputes.Inc()
}

// RecordStatsRecomputeLatency records statistics recompute latency in milliseconds.
func RecordStatsRecomputeLatency(latencyMs float64) {
	globalManager.statsRecomputeLatency.Observe(latencyMs)
}

// RecordStatsCoalesced increments the coalesced-jobs counter.
func RecordStatsCoalesced() {
	globalManager.statsCoalesced.Inc()
}

// RecordTrendingRefresh increments the trending refresh counter.
func RecordTrendingRefresh() {
	globalManager.trendingRefreshes.Inc()
}

// RecordTrendingRefreshDuration records trending rebuild duration in milliseconds.
func RecordTrendingRefreshDuration(durationMs float64) {
	globalManager.trendingRefreshDuration.Observe(durationMs)
}

// UpdateTrendingFeedSize sets the current trending feed size.
func UpdateTrendingFeedSize(size int) {
	globalManager.trendingFeedSize.Set(float64(size))
}

// UpdateTrendingLastRefreshUnix sets the timestamp of the last trending publish.
func UpdateTrendingLastRefreshUnix(ts int64) {
	globalManager.trendingLastRefreshUnix.Set(float64(ts))
}

// UpdateTotalLists sets the total lists gauge.
func UpdateTotalLists(count int) {
	globalManager.totalLists.Set(float64(count))
}

// UpdateTotalItems sets the total items gauge.
func UpdateTotalItems(count int) {
	globalManager.totalItems.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordRepositoryQueryLatency records repository query operation latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueDropped increments the dropped-jobs counter.
func RecordQueueDropped() {
	globalManager.queueDropped.Inc()
}

// Worker Metrics Functions.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
