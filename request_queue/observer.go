package request_queue

import "time"

// Attempt outcomes reported to IQueueObserver
const (
	ResultSuccess = "success"
	ResultRetry   = "retry"
	ResultError   = "error"
)

// IQueueObserver receives queue events, typically to record metrics
type IQueueObserver interface {
	// OnCacheLookup is called for every front-door lookup
	OnCacheLookup(hit bool)
	// OnQueueLength is called whenever the queue length changes
	OnQueueLength(length int)
	// OnInFlight is called whenever the in-flight registry changes
	OnInFlight(count int)
	// OnCacheSize is called after the cache was modified
	OnCacheSize(size int)
	// OnBatch is called after a batch fully settled
	OnBatch(size int, duration time.Duration)
	// OnResult is called for every executed attempt
	OnResult(status string)
}

type noopObserver struct{}

func (noopObserver) OnCacheLookup(bool)         {}
func (noopObserver) OnQueueLength(int)          {}
func (noopObserver) OnInFlight(int)             {}
func (noopObserver) OnCacheSize(int)            {}
func (noopObserver) OnBatch(int, time.Duration) {}
func (noopObserver) OnResult(string)            {}
