package request_queue

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// processQueue drains the queue batch by batch until it is empty
func (s *Service) processQueue() {
	defer s.wg.Done()
	defer s.recoverProcessor()

	for {
		batch, ok := s.nextBatch()
		if !ok {
			return
		}

		s.runBatch(batch)

		s.mu.Lock()
		pending := s.queue.Len()
		s.mu.Unlock()

		if pending > 0 {
			// a cancelled sleep is handled by nextBatch
			_ = sleep(s.ctx, s.clock, s.opts.BatchDelay)
		}
	}
}

// nextBatch pops the next batch. It returns false and moves to Idle when the
// queue is empty or the service was stopped.
func (s *Service) nextBatch() ([]*request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		s.rejectQueuedLocked()
		s.state = stateIdle
		return nil, false
	}

	batch := s.queue.PopBatch(s.opts.MaxConcurrentRequests)
	s.observer.OnQueueLength(s.queue.Len())
	if len(batch) == 0 {
		s.state = stateIdle
		return nil, false
	}
	return batch, true
}

// recoverProcessor keeps a crashed loop from leaving the service stuck in Draining
func (s *Service) recoverProcessor() {
	r := recover()
	if r == nil {
		return
	}

	log.Errorf("RequestQueue: Processor crashed: %v", r)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = stateIdle
	if s.queue.Len() > 0 && s.ctx.Err() == nil {
		log.Warnf("RequestQueue: Restarting processor with %d queued requests", s.queue.Len())
		s.startProcessorLocked()
	}
}

func (s *Service) rejectQueuedLocked() {
	for _, req := range s.queue.Drain() {
		req.result.resolve(nil, ErrStopped)
	}
	s.observer.OnQueueLength(0)
}

// runBatch executes every member concurrently and waits for all of them.
// The outcome of one member never affects its siblings.
func (s *Service) runBatch(batch []*request) {
	start := time.Now()

	var wg sync.WaitGroup
	for _, req := range batch {
		wg.Add(1)
		go func(req *request) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					req.result.resolve(nil, errors.Wrapf(ErrPanic, "%s: %v", req.cacheKey, r))
				}
			}()
			s.execute(req)
		}(req)
	}
	wg.Wait()

	s.observer.OnBatch(len(batch), time.Since(start))
}

// execute runs one attempt of req and settles or re-enqueues it
func (s *Service) execute(req *request) {
	value, err := s.attempt(req)
	if err == nil {
		s.observer.OnResult(ResultSuccess)
		req.result.resolve(value, nil)
		return
	}

	if ShouldRetry(err) && req.retryCount < req.opts.MaxRetries && s.requeue(req) {
		log.Warnf("RequestQueue: %s failed, retry %d/%d scheduled: %v",
			req.cacheKey, req.retryCount, req.opts.MaxRetries, err)
		s.observer.OnResult(ResultRetry)
		return
	}

	log.Errorf("RequestQueue: %s failed after %d retries: %v", req.cacheKey, req.retryCount, err)
	s.observer.OnResult(ResultError)
	req.result.resolve(nil, err)
}

// requeue pushes req back at the tail with an incremented retry counter
func (s *Service) requeue(req *request) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return false
	}

	req.retryCount++
	s.queue.PushBack(req)
	s.observer.OnQueueLength(s.queue.Len())
	return true
}

// attempt serves req from the cache or a running call when possible, otherwise
// registers itself in flight and calls through the retry executor.
func (s *Service) attempt(req *request) (value any, err error) {
	useCache := !req.opts.NoCache

	s.mu.Lock()
	if useCache {
		if cached, ok := s.cache.GetOne(req.cacheKey); ok {
			s.mu.Unlock()
			return cached, nil
		}
		if pending, ok := s.inFlight[req.cacheKey]; ok {
			s.mu.Unlock()
			return pending.wait(s.ctx)
		}
	}

	running := newFuture()
	if useCache {
		s.inFlight[req.cacheKey] = running
		s.observer.OnInFlight(len(s.inFlight))
	}
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = errors.Wrapf(ErrPanic, "%s: %v", req.cacheKey, r)
		}

		if useCache {
			s.mu.Lock()
			if err == nil {
				s.cache.SetOne(req.cacheKey, value, 0)
				s.observer.OnCacheSize(s.cache.ItemCount())
			}
			delete(s.inFlight, req.cacheKey)
			s.observer.OnInFlight(len(s.inFlight))
			s.mu.Unlock()
		}

		running.resolve(value, err)
	}()

	return s.fetchWithRetry(s.ctx, req.call, req.opts, req.retryCount)
}
