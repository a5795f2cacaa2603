package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// MetricsPrefix is the prefix used for all metrics
const MetricsPrefix = "plm_proxy_"

// Service constants
const (
	ServiceRequestQueue = "request-queue"
	ServicePLMClient    = "plm-client"
	ServiceDataService  = "data-service"
	ServiceUpdater      = "updater"
)

var (
	// Global PLM request counter (all services)
	// Cardinality: ~5 (success, error, rate_limited, network_error, ...)
	PLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "plm_requests_total",
			Help: "Total number of HTTP requests to the PLM backend",
		},
		[]string{"status"},
	)

	// Request latency per endpoint
	// Cardinality: ~10 (number of OData entity sets)
	RequestLatencyHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "request_latency_seconds",
			Help: "PLM request latency by endpoint",
		},
		[]string{"endpoint"},
	)

	// Outcome of every attempt executed by a queue
	// Cardinality: ~3 (success, retry, error)
	QueueResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "queue_results_total",
			Help: "Request attempts executed by the queue processor by outcome",
		},
		[]string{"service", "status"},
	)

	// Front-door cache lookups
	// Cardinality: ~2 (hit, miss)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricsPrefix + "cache_lookups_total",
			Help: "Cache and in-flight lookups by result",
		},
		[]string{"service", "result"},
	)

	// Queue length
	QueueLengthGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "queue_length",
			Help: "Number of requests waiting in the queue",
		},
		[]string{"service"},
	)

	// In-flight registry size
	InFlightGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "in_flight_requests",
			Help: "Number of distinct keys currently being fetched",
		},
		[]string{"service"},
	)

	// Service cache size
	ServiceCacheSizeGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricsPrefix + "service_cache_size",
			Help: "Number of items in service cache",
		},
		[]string{"service"},
	)

	// Batch duration
	BatchDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "batch_duration_seconds",
			Help: "Time taken until every member of a batch settled",
		},
		[]string{"service"},
	)

	// Batch size
	BatchSizeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricsPrefix + "batch_size",
			Help:    "Number of requests dispatched per batch",
			Buckets: []float64{1, 2, 4, 8, 16, 32},
		},
		[]string{"service"},
	)

	// Data refresh cycle duration per service
	DataRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: MetricsPrefix + "data_refresh_duration_seconds",
			Help: "Time taken to refresh the data of one program",
		},
		[]string{"service"},
	)
)

// MetricsWriter provides a unified interface for recording service metrics
type MetricsWriter struct {
	serviceName string
}

// NewMetricsWriter creates a new MetricsWriter for the specified service
func NewMetricsWriter(serviceName string) *MetricsWriter {
	return &MetricsWriter{
		serviceName: serviceName,
	}
}

// GetServiceName returns the service name
func (mw *MetricsWriter) GetServiceName() string {
	return mw.serviceName
}

// RecordPLMRequest records an HTTP request to the PLM backend
func (mw *MetricsWriter) RecordPLMRequest(status string) {
	PLMRequestsTotal.WithLabelValues(status).Inc()
	log.Debugf("Metrics: %s PLM request recorded with status %s", mw.serviceName, status)
}

// RecordRequestLatency records the latency of one PLM request
func (mw *MetricsWriter) RecordRequestLatency(endpoint string, duration time.Duration) {
	RequestLatencyHistogram.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordDataRefresh records the duration of a data refresh
func (mw *MetricsWriter) RecordDataRefresh(duration time.Duration) {
	DataRefreshDuration.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
	log.Debugf("Metrics: %s data refresh took %.2fs", mw.serviceName, duration.Seconds())
}

// RecordCacheSize records the number of items in service cache
func (mw *MetricsWriter) RecordCacheSize(size int) {
	ServiceCacheSizeGauge.WithLabelValues(mw.serviceName).Set(float64(size))
}

// Implement request_queue.IQueueObserver for MetricsWriter

// OnCacheLookup records a cache or in-flight lookup
func (mw *MetricsWriter) OnCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(mw.serviceName, result).Inc()
}

// OnQueueLength records the queue length
func (mw *MetricsWriter) OnQueueLength(length int) {
	QueueLengthGauge.WithLabelValues(mw.serviceName).Set(float64(length))
}

// OnInFlight records the in-flight registry size
func (mw *MetricsWriter) OnInFlight(count int) {
	InFlightGauge.WithLabelValues(mw.serviceName).Set(float64(count))
}

// OnCacheSize records the memoization cache size
func (mw *MetricsWriter) OnCacheSize(size int) {
	mw.RecordCacheSize(size)
}

// OnBatch records a settled batch
func (mw *MetricsWriter) OnBatch(size int, duration time.Duration) {
	BatchSizeHistogram.WithLabelValues(mw.serviceName).Observe(float64(size))
	BatchDurationHistogram.WithLabelValues(mw.serviceName).Observe(duration.Seconds())
}

// OnResult records the outcome of one attempt
func (mw *MetricsWriter) OnResult(status string) {
	QueueResultsTotal.WithLabelValues(mw.serviceName, status).Inc()
}

// Implement plm_client.IHttpStatusHandler for MetricsWriter

// OnRequest records an HTTP request with its status
func (mw *MetricsWriter) OnRequest(status string) {
	mw.RecordPLMRequest(status)
}
