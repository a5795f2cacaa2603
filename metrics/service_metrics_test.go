package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsWriter_QueueObserver(t *testing.T) {
	mw := NewMetricsWriter("test-queue")
	assert.Equal(t, "test-queue", mw.GetServiceName())

	mw.OnCacheLookup(true)
	mw.OnCacheLookup(false)
	mw.OnCacheLookup(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("test-queue", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(CacheLookupsTotal.WithLabelValues("test-queue", "miss")))

	mw.OnQueueLength(7)
	mw.OnInFlight(3)
	mw.OnCacheSize(11)
	assert.Equal(t, 7.0, testutil.ToFloat64(QueueLengthGauge.WithLabelValues("test-queue")))
	assert.Equal(t, 3.0, testutil.ToFloat64(InFlightGauge.WithLabelValues("test-queue")))
	assert.Equal(t, 11.0, testutil.ToFloat64(ServiceCacheSizeGauge.WithLabelValues("test-queue")))

	mw.OnResult("retry")
	mw.OnResult("retry")
	assert.Equal(t, 2.0, testutil.ToFloat64(QueueResultsTotal.WithLabelValues("test-queue", "retry")))

	mw.OnBatch(8, 120*time.Millisecond)
}

func TestMetricsWriter_OnRequest(t *testing.T) {
	mw := NewMetricsWriter("test-client")
	before := testutil.ToFloat64(PLMRequestsTotal.WithLabelValues("rate_limited"))

	mw.OnRequest("rate_limited")

	assert.Equal(t, before+1, testutil.ToFloat64(PLMRequestsTotal.WithLabelValues("rate_limited")))
}
