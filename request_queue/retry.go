package request_queue

import (
	"context"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"
)

// backoffDelay returns base * 2^(retryCount-1) for retryCount >= 1
func backoffDelay(base time.Duration, retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	multiplier := uint(1) << uint(retryCount-1)
	return time.Duration(float64(base) * float64(multiplier))
}

// randomJitter returns a uniformly random duration in [0, max)
func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	// #nosec G404 -- jitter is non-cryptographic timing variance.
	return time.Duration(rand.Int64N(int64(max)))
}

// fetchWithRetry waits the backoff for retryCount and then invokes call once.
// The result and error of call are returned unchanged.
func (s *Service) fetchWithRetry(ctx context.Context, call CallFunc, opts Options, retryCount int) (any, error) {
	if retryCount > 0 {
		delay := backoffDelay(opts.RetryDelay, retryCount) + s.jitter(opts.MaxJitter)
		log.Debugf("RequestQueue: Waiting %.2fs before retry %d/%d", delay.Seconds(), retryCount, opts.MaxRetries)
		if err := sleep(ctx, s.clock, delay); err != nil {
			return nil, err
		}
	}

	callCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	return call(callCtx)
}
