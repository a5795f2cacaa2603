package request_queue

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/relplan/plm-proxy/cache"
)

type processorState int

const (
	stateIdle processorState = iota
	stateDraining
)

func (st processorState) String() string {
	if st == stateDraining {
		return "draining"
	}
	return "idle"
}

// future is the completion of a request shared by every waiting caller
type future struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

func newFuture() *future {
	return &future{done: make(chan struct{})}
}

// resolve settles the future; only the first call has an effect
func (f *future) resolve(value any, err error) {
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
	})
}

func (f *future) wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// request is a queued descriptor
type request struct {
	cacheKey   string
	call       CallFunc
	opts       Options
	retryCount int
	result     *future
}

// ServiceOption customizes a Service
type ServiceOption func(*Service)

// WithClock replaces the clock used for every delay
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithJitter replaces the random jitter source
func WithJitter(jitter func(max time.Duration) time.Duration) ServiceOption {
	return func(s *Service) {
		s.jitter = jitter
	}
}

// WithObserver registers a queue observer
func WithObserver(observer IQueueObserver) ServiceOption {
	return func(s *Service) {
		s.observer = observer
	}
}

// Service is a de-duplicating, queued, retrying request scheduler with a
// memoization cache. Values are cached until ClearCache is called.
type Service struct {
	opts      Options
	transport Transport
	clock     Clock
	jitter    func(max time.Duration) time.Duration
	observer  IQueueObserver

	mu       sync.Mutex
	cache    *cache.GoCache[any]
	inFlight map[string]*future
	queue    *Queue[*request]
	state    processorState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a request queue with the given default options.
// transport is only required for Get and Post.
func NewService(opts Options, transport Transport, serviceOpts ...ServiceOption) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Service{
		opts:      opts.Merge(DefaultOptions()),
		transport: transport,
		clock:     RealClock(),
		jitter:    randomJitter,
		observer:  noopObserver{},
		cache:     cache.NewGoCache[any](cache.NoExpiration, 0),
		inFlight:  make(map[string]*future),
		queue:     NewQueue[*request](),
		state:     stateIdle,
		ctx:       ctx,
		cancel:    cancel,
	}

	for _, apply := range serviceOpts {
		apply(s)
	}

	return s
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.ctx.Err() != nil {
		return ErrStopped
	}
	log.Infof("RequestQueue: Started (batch size %d, max retries %d, retry delay %s, batch delay %s)",
		s.opts.MaxConcurrentRequests, s.opts.MaxRetries, s.opts.RetryDelay, s.opts.BatchDelay)
	return nil
}

// Stop implements core.Interface. Requests still queued are rejected with ErrStopped.
func (s *Service) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Info("RequestQueue: Stopped")
}

// Options returns the default options of the service
func (s *Service) Options() Options {
	return s.opts
}

// FetchData returns the value for cacheKey, calling call through the queue when
// it is neither cached nor already in flight. overrides are merged over the
// service defaults. A positive staggerIndex delays entry into the queue by
// staggerIndex * RowIndexDelay.
//
// If ctx is done the caller stops waiting, but an enqueued request still runs
// to completion and populates the cache.
func (s *Service) FetchData(ctx context.Context, cacheKey string, call CallFunc, overrides Options, staggerIndex int) (any, error) {
	opts := overrides.Merge(s.opts)

	if value, pending, ok := s.lookup(cacheKey, opts); ok {
		if pending == nil {
			return value, nil
		}
		return pending.wait(ctx)
	}

	if staggerIndex > 0 {
		if err := sleep(ctx, s.clock, time.Duration(staggerIndex)*opts.RowIndexDelay); err != nil {
			return nil, err
		}
		if value, pending, ok := s.lookup(cacheKey, opts); ok {
			if pending == nil {
				return value, nil
			}
			return pending.wait(ctx)
		}
	}

	req := &request{
		cacheKey: cacheKey,
		call:     call,
		opts:     opts,
		result:   newFuture(),
	}
	if err := s.enqueue(req); err != nil {
		return nil, err
	}

	return req.result.wait(ctx)
}

// Fetch is the typed form of FetchData
func Fetch[T any](ctx context.Context, s *Service, cacheKey string, call func(ctx context.Context) (T, error), overrides Options, staggerIndex int) (T, error) {
	var empty T

	value, err := s.FetchData(ctx, cacheKey, func(ctx context.Context) (any, error) {
		v, err := call(ctx)
		if err != nil {
			return nil, err
		}
		return v, nil
	}, overrides, staggerIndex)
	if err != nil {
		return empty, err
	}

	typed, ok := value.(T)
	if !ok {
		return empty, errors.Wrapf(ErrUnexpectedType, "cache key %s holds %T", cacheKey, value)
	}
	return typed, nil
}

// Get performs a memoized, de-duplicated GET through the queue
func (s *Service) Get(ctx context.Context, url string, params map[string]string, overrides Options) ([]byte, error) {
	if s.transport == nil {
		return nil, errors.New("request queue has no transport")
	}

	key := BuildCacheKey(http.MethodGet, url, params)
	return Fetch(ctx, s, key, func(ctx context.Context) ([]byte, error) {
		return s.transport.Do(ctx, http.MethodGet, url, params, nil)
	}, overrides, 0)
}

// Post performs a POST through the queue. Posts are retried but never
// memoized or de-duplicated.
func (s *Service) Post(ctx context.Context, url string, data any, overrides Options) ([]byte, error) {
	if s.transport == nil {
		return nil, errors.New("request queue has no transport")
	}

	overrides.NoCache = true
	key := BuildCacheKey(http.MethodPost, url, nil)
	return Fetch(ctx, s, key, func(ctx context.Context) ([]byte, error) {
		return s.transport.Do(ctx, http.MethodPost, url, nil, data)
	}, overrides, 0)
}

// ClearCache removes the given keys, or every cached value when called without keys.
// In-flight requests are not affected.
func (s *Service) ClearCache(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(keys) == 0 {
		s.cache.Clear()
	} else {
		s.cache.Delete(keys)
	}
	s.observer.OnCacheSize(s.cache.ItemCount())
}

// Stats is a diagnostics snapshot of the queue
type Stats struct {
	CacheSize    int      `json:"cache_size"`
	CacheKeys    []string `json:"cache_keys"`
	InFlight     int      `json:"in_flight"`
	InFlightKeys []string `json:"in_flight_keys"`
	QueueLength  int      `json:"queue_length"`
	Processing   bool     `json:"processing"`
}

// Stats returns cache, in-flight and queue statistics
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	cacheKeys := s.cache.Keys()
	sort.Strings(cacheKeys)

	inFlightKeys := make([]string, 0, len(s.inFlight))
	for key := range s.inFlight {
		inFlightKeys = append(inFlightKeys, key)
	}
	sort.Strings(inFlightKeys)

	return Stats{
		CacheSize:    len(cacheKeys),
		CacheKeys:    cacheKeys,
		InFlight:     len(inFlightKeys),
		InFlightKeys: inFlightKeys,
		QueueLength:  s.queue.Len(),
		Processing:   s.state == stateDraining,
	}
}

// lookup checks the cache and the in-flight registry.
// ok is true on a hit; pending is non-nil when the key is in flight.
func (s *Service) lookup(cacheKey string, opts Options) (value any, pending *future, ok bool) {
	if opts.NoCache {
		return nil, nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if value, found := s.cache.GetOne(cacheKey); found {
		s.observer.OnCacheLookup(true)
		return value, nil, true
	}
	if pending, found := s.inFlight[cacheKey]; found {
		s.observer.OnCacheLookup(true)
		return nil, pending, true
	}

	s.observer.OnCacheLookup(false)
	return nil, nil, false
}

// enqueue pushes req to the tail and starts the processor when idle
func (s *Service) enqueue(req *request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return ErrStopped
	}

	s.queue.PushBack(req)
	s.observer.OnQueueLength(s.queue.Len())
	s.startProcessorLocked()
	return nil
}

// startProcessorLocked moves Idle to Draining. It is a no-op while draining.
func (s *Service) startProcessorLocked() {
	if s.state == stateDraining {
		return
	}
	s.state = stateDraining
	s.wg.Add(1)
	go s.processQueue()
}
