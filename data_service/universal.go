package data_service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/relplan/plm-proxy/cache"
	"github.com/relplan/plm-proxy/config"
	"github.com/relplan/plm-proxy/interfaces"
	"github.com/relplan/plm-proxy/request_queue"
)

// UniversalService loads raw entity collections. Results are kept in a TTL
// cache in front of the request queue, so reads within the TTL never reach
// the queue. After the TTL the memoized queue value is dropped and loaded again.
type UniversalService struct {
	queue       *request_queue.Service
	transport   request_queue.Transport
	cache       cache.Cache
	ttl         time.Duration
	maxParallel int

	mu sync.Mutex
	// keys being reloaded after a TTL miss
	claimed map[string]struct{}
}

func NewUniversalService(queue *request_queue.Service, transport request_queue.Transport, cache cache.Cache, cfg config.DataServiceConfig) *UniversalService {
	maxParallel := cfg.MaxParallelRows
	if maxParallel <= 0 {
		maxParallel = -1
	}

	return &UniversalService{
		queue:       queue,
		transport:   transport,
		cache:       cache,
		ttl:         cfg.GetTTL(),
		maxParallel: maxParallel,
		claimed:     make(map[string]struct{}),
	}
}

// FetchEntities returns the raw collection for q. A positive staggerIndex
// delays the queue entry of uncached requests.
func (u *UniversalService) FetchEntities(ctx context.Context, q Query, staggerIndex int) ([]byte, interfaces.CacheStatus, error) {
	key := q.CacheKey()
	if found, _ := u.cache.Get([]string{key}); found[key] != nil {
		return found[key], interfaces.CacheStatusFull, nil
	}

	data, err := u.load(ctx, q, staggerIndex)
	if err != nil {
		return nil, interfaces.CacheStatusMiss, err
	}
	return data, interfaces.CacheStatusMiss, nil
}

// FetchMany returns the raw collections of queries keyed by cache key.
// Uncached queries are fanned out with their position as stagger index.
func (u *UniversalService) FetchMany(ctx context.Context, queries []Query) (map[string][]byte, interfaces.CacheStatus, error) {
	byKey := make(map[string]Query, len(queries))
	keys := make([]string, 0, len(queries))
	for _, q := range queries {
		key := q.CacheKey()
		if _, ok := byKey[key]; ok {
			continue
		}
		byKey[key] = q
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return map[string][]byte{}, interfaces.CacheStatusFull, nil
	}

	missingCount := 0
	data, err := u.cache.GetOrLoad(ctx, keys, func(ctx context.Context, missingKeys []string) (map[string][]byte, error) {
		missingCount = len(missingKeys)

		var mu sync.Mutex
		loaded := make(map[string][]byte, len(missingKeys))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(u.maxParallel)
		for i, key := range missingKeys {
			g.Go(func() error {
				body, err := u.load(gctx, byKey[key], i)
				if err != nil {
					return err
				}
				mu.Lock()
				loaded[key] = body
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return loaded, nil
	}, true, u.ttl)
	if err != nil {
		return nil, interfaces.CacheStatusMiss, err
	}

	switch {
	case missingCount == 0:
		return data, interfaces.CacheStatusFull, nil
	case missingCount < len(keys):
		return data, interfaces.CacheStatusPartial, nil
	default:
		return data, interfaces.CacheStatusMiss, nil
	}
}

// Invalidate drops keys from the TTL cache and from the request queue
func (u *UniversalService) Invalidate(keys ...string) {
	if len(keys) == 0 {
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.cache.Delete(keys)
	u.queue.ClearCache(keys...)
}

// InvalidateAll drops every cached collection
func (u *UniversalService) InvalidateAll() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.cache.Clear()
	u.queue.ClearCache()
}

// load fetches q through the request queue. The first caller after a TTL
// miss owns the reload: it drops the stale queue value and stores the result.
// With the row cache disabled the queue value is kept until Invalidate.
func (u *UniversalService) load(ctx context.Context, q Query, staggerIndex int) ([]byte, error) {
	key := q.CacheKey()

	data, owner := u.claim(key)
	if data != nil {
		return data, nil
	}

	body, err := request_queue.Fetch(ctx, u.queue, key, func(ctx context.Context) ([]byte, error) {
		return u.call(ctx, q)
	}, request_queue.Options{}, staggerIndex)

	if owner {
		u.release(key, body, err)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", key)
	}
	return body, nil
}

func (u *UniversalService) call(ctx context.Context, q Query) ([]byte, error) {
	body, err := u.transport.Do(ctx, http.MethodGet, q.Request.Path(), q.Request.Params(), nil)
	if err != nil {
		var statusErr *request_queue.StatusError
		if q.NotFoundAsEmpty && errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			log.Debugf("DataService: %s not found, using empty collection", q.CacheKey())
			return emptyCollection, nil
		}
		return nil, err
	}
	return body, nil
}

func (u *UniversalService) claim(key string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if found, _ := u.cache.Get([]string{key}); found[key] != nil {
		return found[key], false
	}
	if _, ok := u.claimed[key]; ok {
		return nil, false
	}

	// a disabled row cache never expires anything, the queue memo stays valid
	if u.cache.Stats().Enabled {
		u.queue.ClearCache(key)
	}
	u.claimed[key] = struct{}{}
	return nil, true
}

func (u *UniversalService) release(key string, body []byte, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err == nil {
		u.cache.Set(map[string][]byte{key: body}, u.ttl)
	}
	delete(u.claimed, key)
}
