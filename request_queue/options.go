package request_queue

import "time"

// Options configures batching, retries and pacing of queued requests.
// Zero fields are filled from the service defaults by Merge.
//
// MaxConcurrentRequests and BatchDelay belong to the queue processor and are
// always taken from the service options; per-call values for them are ignored.
type Options struct {
	// MaxConcurrentRequests is the batch size of the queue processor. Service level only.
	MaxConcurrentRequests int `yaml:"max_concurrent_requests"`

	// MaxRetries is the number of retries after the first attempt, negative disables retries
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the base backoff delay, doubled on every retry
	RetryDelay time.Duration `yaml:"retry_delay"`

	// BatchDelay is the pause between two batches while the queue is not empty. Service level only.
	BatchDelay time.Duration `yaml:"batch_delay"`

	// RowIndexDelay spreads out requests issued for many table rows at once
	RowIndexDelay time.Duration `yaml:"row_index_delay"`

	// Timeout bounds a single call attempt
	Timeout time.Duration `yaml:"timeout"`

	// MaxJitter is the exclusive upper bound of the random delay added to backoff
	MaxJitter time.Duration `yaml:"max_jitter"`

	// NoCache skips memoization and de-duplication for the request
	NoCache bool `yaml:"-"`
}

// DefaultOptions returns the defaults used when no configuration is provided
func DefaultOptions() Options {
	return Options{
		MaxConcurrentRequests: 8,
		MaxRetries:            3,
		RetryDelay:            500 * time.Millisecond,
		BatchDelay:            100 * time.Millisecond,
		RowIndexDelay:         50 * time.Millisecond,
		Timeout:               10 * time.Second,
		MaxJitter:             100 * time.Millisecond,
	}
}

// Merge returns o with every zero field taken from defaults
func (o Options) Merge(defaults Options) Options {
	merged := o
	if merged.MaxConcurrentRequests <= 0 {
		merged.MaxConcurrentRequests = defaults.MaxConcurrentRequests
	}
	if merged.MaxRetries == 0 {
		merged.MaxRetries = defaults.MaxRetries
	}
	if merged.RetryDelay == 0 {
		merged.RetryDelay = defaults.RetryDelay
	}
	if merged.BatchDelay == 0 {
		merged.BatchDelay = defaults.BatchDelay
	}
	if merged.RowIndexDelay == 0 {
		merged.RowIndexDelay = defaults.RowIndexDelay
	}
	if merged.Timeout == 0 {
		merged.Timeout = defaults.Timeout
	}
	if merged.MaxJitter == 0 {
		merged.MaxJitter = defaults.MaxJitter
	}
	merged.NoCache = o.NoCache || defaults.NoCache
	return merged.normalize()
}

// normalize turns negative values into their "disabled" meaning
func (o Options) normalize() Options {
	if o.MaxConcurrentRequests <= 0 {
		o.MaxConcurrentRequests = 1
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryDelay < 0 {
		o.RetryDelay = 0
	}
	if o.BatchDelay < 0 {
		o.BatchDelay = 0
	}
	if o.RowIndexDelay < 0 {
		o.RowIndexDelay = 0
	}
	if o.Timeout < 0 {
		o.Timeout = 0
	}
	if o.MaxJitter < 0 {
		o.MaxJitter = 0
	}
	return o
}
