package request_queue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingClock fires immediately and remembers every requested delay
type recordingClock struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (c *recordingClock) Now() time.Time {
	return time.Now()
}

func (c *recordingClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.delays = append(c.delays, d)
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func (c *recordingClock) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.delays...)
}

func noJitter(time.Duration) time.Duration { return 0 }

// fastOptions keeps real-time tests quick
func fastOptions() Options {
	return Options{
		MaxConcurrentRequests: 8,
		MaxRetries:            3,
		RetryDelay:            time.Millisecond,
		BatchDelay:            time.Millisecond,
		RowIndexDelay:         time.Millisecond,
		Timeout:               time.Second,
		MaxJitter:             -1,
	}
}

func newTestService(t *testing.T, opts Options, serviceOpts ...ServiceOption) *Service {
	t.Helper()
	s := NewService(opts, nil, serviceOpts...)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)
	return s
}

func countingCall(counter *atomic.Int32, value any, err error) CallFunc {
	return func(context.Context) (any, error) {
		counter.Add(1)
		return value, err
	}
}

func TestFetchData_CacheHitSkipsCall(t *testing.T) {
	s := newTestService(t, fastOptions())
	ctx := context.Background()

	value, err := s.FetchData(ctx, "A", func(context.Context) (any, error) { return 42, nil }, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 42, value)

	value, err = s.FetchData(ctx, "A", func(context.Context) (any, error) {
		t.Fatal("call must not run for a cached key")
		return nil, errors.New("unreachable")
	}, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestFetchData_DeduplicatesConcurrentCalls(t *testing.T) {
	s := newTestService(t, fastOptions())

	var calls atomic.Int32
	slowFn := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return []string{"concept", "design", "release"}, nil
	}

	const callers = 10
	results := make([]any, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.FetchData(context.Background(), "PHASES:apollo", slowFn, Options{}, 0)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestFetchData_RetryBound(t *testing.T) {
	s := newTestService(t, fastOptions())

	var calls atomic.Int32
	unavailable := &StatusError{Method: http.MethodGet, URL: "/parts", StatusCode: http.StatusServiceUnavailable}

	_, err := s.FetchData(context.Background(), "B", countingCall(&calls, nil, unavailable), Options{}, 0)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, int32(4), calls.Load())

	stats := s.Stats()
	assert.Equal(t, 0, stats.CacheSize)
	assert.Equal(t, 0, stats.InFlight)
}

func TestFetchData_PerCallMaxRetries(t *testing.T) {
	s := newTestService(t, fastOptions())

	var calls atomic.Int32
	_, err := s.FetchData(context.Background(), "C", countingCall(&calls, nil, &NetworkError{Err: errors.New("connection reset")}), Options{MaxRetries: 1}, 0)
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())

	calls.Store(0)
	_, err = s.FetchData(context.Background(), "D", countingCall(&calls, nil, &NetworkError{Err: errors.New("connection reset")}), Options{MaxRetries: -1}, 0)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchData_NoRetryOnTerminalError(t *testing.T) {
	s := newTestService(t, fastOptions())

	var calls atomic.Int32
	notFound := &StatusError{Method: http.MethodGet, URL: "/parts/x", StatusCode: http.StatusNotFound}

	_, err := s.FetchData(context.Background(), "E", countingCall(&calls, nil, notFound), Options{}, 0)
	assert.Same(t, notFound, err)
	assert.Equal(t, int32(1), calls.Load())

	// a failed key is not cached, so the next call runs again
	value, err := s.FetchData(context.Background(), "E", countingCall(&calls, "found", nil), Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "found", value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchData_BackoffGrowth(t *testing.T) {
	clock := &recordingClock{}
	opts := fastOptions()
	opts.RetryDelay = 500 * time.Millisecond
	opts.BatchDelay = -1
	s := newTestService(t, opts, WithClock(clock), WithJitter(noJitter))

	var calls atomic.Int32
	_, err := s.FetchData(context.Background(), "F", countingCall(&calls, nil, &StatusError{StatusCode: http.StatusBadGateway}), Options{}, 0)
	require.Error(t, err)
	assert.Equal(t, int32(4), calls.Load())

	delays := clock.Delays()
	require.Len(t, delays, 3)
	for n, delay := range delays {
		assert.GreaterOrEqual(t, delay, 500*time.Millisecond*time.Duration(1<<n))
		if n > 0 {
			assert.GreaterOrEqual(t, delay, delays[n-1])
		}
	}
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}, delays)
}

func TestFetchData_JitterIsAdded(t *testing.T) {
	clock := &recordingClock{}
	opts := fastOptions()
	opts.RetryDelay = 100 * time.Millisecond
	opts.BatchDelay = -1
	opts.MaxRetries = 1
	opts.MaxJitter = 40 * time.Millisecond

	var requestedMax time.Duration
	jitter := func(max time.Duration) time.Duration {
		requestedMax = max
		return 7 * time.Millisecond
	}
	s := newTestService(t, opts, WithClock(clock), WithJitter(jitter))

	_, err := s.FetchData(context.Background(), "G", func(context.Context) (any, error) {
		return nil, &StatusError{StatusCode: http.StatusTooManyRequests}
	}, Options{}, 0)
	require.Error(t, err)

	assert.Equal(t, 40*time.Millisecond, requestedMax)
	assert.Equal(t, []time.Duration{107 * time.Millisecond}, clock.Delays())
}

func TestFetchData_BatchConcurrencyCeiling(t *testing.T) {
	tests := []struct {
		name      string
		overrides Options
	}{
		{name: "service defaults"},
		// batch size is a processor setting, per-call values do not widen it
		{name: "per-call override ignored", overrides: Options{MaxConcurrentRequests: 100, BatchDelay: time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fastOptions()
			opts.MaxConcurrentRequests = 4
			s := newTestService(t, opts)

			var current, maxSeen atomic.Int32
			call := func(context.Context) (any, error) {
				n := current.Add(1)
				for {
					seen := maxSeen.Load()
					if n <= seen || maxSeen.CompareAndSwap(seen, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				current.Add(-1)
				return "ok", nil
			}

			const total = 12
			var wg sync.WaitGroup
			for i := 0; i < total; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					value, err := s.FetchData(context.Background(), fmt.Sprintf("CA:part-%d", i), call, tt.overrides, 0)
					assert.NoError(t, err)
					assert.Equal(t, "ok", value)
				}(i)
			}
			wg.Wait()

			assert.LessOrEqual(t, maxSeen.Load(), int32(4))
			assert.Equal(t, total, s.Stats().CacheSize)
		})
	}
}

func TestFetchData_RetriedRequestRejoinsAtTail(t *testing.T) {
	opts := fastOptions()
	opts.MaxConcurrentRequests = 1
	s := newTestService(t, opts)

	var mu sync.Mutex
	var order []string
	record := func(key string) {
		mu.Lock()
		order = append(order, key)
		mu.Unlock()
	}

	gate := make(chan struct{})
	var firstAttempt atomic.Bool
	firstAttempt.Store(true)
	callA := func(context.Context) (any, error) {
		record("A")
		if firstAttempt.CompareAndSwap(true, false) {
			<-gate
			return nil, &StatusError{StatusCode: http.StatusInternalServerError}
		}
		return "a", nil
	}
	callOther := func(key string) CallFunc {
		return func(context.Context) (any, error) {
			record(key)
			return key, nil
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		value, err := s.FetchData(context.Background(), "A", callA, Options{}, 0)
		assert.NoError(t, err)
		assert.Equal(t, "a", value)
	}()
	require.Eventually(t, func() bool { return len(s.Stats().InFlightKeys) == 1 }, time.Second, time.Millisecond)

	for _, key := range []string{"B", "C"} {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			_, err := s.FetchData(context.Background(), key, callOther(key), Options{}, 0)
			assert.NoError(t, err)
		}(key)
		require.Eventually(t, func() bool { return s.Stats().QueueLength >= 1 }, time.Second, time.Millisecond)
	}
	require.Eventually(t, func() bool { return s.Stats().QueueLength == 2 }, time.Second, time.Millisecond)

	close(gate)
	wg.Wait()

	require.Len(t, order, 4)
	assert.Equal(t, "A", order[0])
	assert.ElementsMatch(t, []string{"B", "C"}, order[1:3])
	assert.Equal(t, "A", order[3])
}

func TestFetchData_StaggerDelaysEntry(t *testing.T) {
	clock := &recordingClock{}
	opts := fastOptions()
	opts.RowIndexDelay = 50 * time.Millisecond
	opts.BatchDelay = -1
	s := newTestService(t, opts, WithClock(clock))

	value, err := s.FetchData(context.Background(), "CA:row-3", func(context.Context) (any, error) { return 3, nil }, Options{}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, value)
	assert.Equal(t, []time.Duration{150 * time.Millisecond}, clock.Delays())

	// cached keys return before any stagger
	_, err = s.FetchData(context.Background(), "CA:row-3", nil, Options{}, 5)
	require.NoError(t, err)
	assert.Len(t, clock.Delays(), 1)
}

func TestFetchData_PanicIsIsolated(t *testing.T) {
	s := newTestService(t, fastOptions())

	var wg sync.WaitGroup
	var panicErr, okErr error
	var okValue any

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, panicErr = s.FetchData(context.Background(), "boom", func(context.Context) (any, error) {
			panic("malformed response")
		}, Options{}, 0)
	}()
	go func() {
		defer wg.Done()
		okValue, okErr = s.FetchData(context.Background(), "fine", func(context.Context) (any, error) {
			time.Sleep(5 * time.Millisecond)
			return "fine", nil
		}, Options{}, 0)
	}()
	wg.Wait()

	assert.ErrorIs(t, panicErr, ErrPanic)
	require.NoError(t, okErr)
	assert.Equal(t, "fine", okValue)
	assert.Equal(t, 0, s.Stats().InFlight)
}

func TestFetchData_TimeoutIsRetried(t *testing.T) {
	opts := fastOptions()
	opts.Timeout = 10 * time.Millisecond
	opts.MaxRetries = 1
	s := newTestService(t, opts)

	var calls atomic.Int32
	_, err := s.FetchData(context.Background(), "slow", func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-ctx.Done()
		return nil, ctx.Err()
	}, Options{}, 0)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchData_CallerCancellationKeepsRequest(t *testing.T) {
	s := newTestService(t, fastOptions())

	release := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := s.FetchData(ctx, "CR:apollo", func(context.Context) (any, error) {
			<-release
			return "crs", nil
		}, Options{}, 0)
		done <- err
	}()

	require.Eventually(t, func() bool { return s.Stats().InFlight == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool { return s.Stats().CacheSize == 1 }, time.Second, time.Millisecond)

	value, err := s.FetchData(context.Background(), "CR:apollo", nil, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "crs", value)
}

func TestFetchData_NoCacheBypassesMemoization(t *testing.T) {
	s := newTestService(t, fastOptions())

	var calls atomic.Int32
	for i := 0; i < 2; i++ {
		_, err := s.FetchData(context.Background(), "nocache", countingCall(&calls, "v", nil), Options{NoCache: true}, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, s.Stats().CacheSize)
}

func TestFetch_Typed(t *testing.T) {
	s := newTestService(t, fastOptions())

	phases, err := Fetch(context.Background(), s, "PHASES:apollo", func(context.Context) ([]string, error) {
		return []string{"concept"}, nil
	}, Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"concept"}, phases)

	_, err = Fetch(context.Background(), s, "PHASES:apollo", func(context.Context) (int, error) {
		return 0, nil
	}, Options{}, 0)
	assert.ErrorIs(t, err, ErrUnexpectedType)
}

func TestClearCache(t *testing.T) {
	s := newTestService(t, fastOptions())
	ctx := context.Background()

	var calls atomic.Int32
	for _, key := range []string{"A", "B"} {
		_, err := s.FetchData(ctx, key, countingCall(&calls, key, nil), Options{}, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"A", "B"}, s.Stats().CacheKeys)

	s.ClearCache("A")
	assert.Equal(t, []string{"B"}, s.Stats().CacheKeys)

	_, err := s.FetchData(ctx, "A", countingCall(&calls, "A2", nil), Options{}, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	s.ClearCache()
	assert.Equal(t, 0, s.Stats().CacheSize)
}

func TestStop_RejectsQueuedRequests(t *testing.T) {
	opts := fastOptions()
	opts.MaxConcurrentRequests = 1
	s := NewService(opts, nil)

	first := make(chan error, 1)
	go func() {
		_, err := s.FetchData(context.Background(), "first", func(ctx context.Context) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}, Options{}, 0)
		first <- err
	}()
	require.Eventually(t, func() bool { return s.Stats().InFlight == 1 }, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() {
		_, err := s.FetchData(context.Background(), "second", func(context.Context) (any, error) {
			return "never", nil
		}, Options{}, 0)
		second <- err
	}()
	require.Eventually(t, func() bool { return s.Stats().QueueLength == 1 }, time.Second, time.Millisecond)

	s.Stop()

	assert.ErrorIs(t, <-first, context.Canceled)
	assert.ErrorIs(t, <-second, ErrStopped)

	_, err := s.FetchData(context.Background(), "third", func(context.Context) (any, error) { return 1, nil }, Options{}, 0)
	assert.ErrorIs(t, err, ErrStopped)
	assert.False(t, s.Stats().Processing)
}
