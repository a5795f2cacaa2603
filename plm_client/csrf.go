package plm_client

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const nonceCacheKey = "csrf"

// Nonce is the CSRF token sent as header with mutating requests
type Nonce struct {
	Key   string `json:"NonceKey"`
	Value string `json:"NonceValue"`
}

// NonceFetcher retrieves a fresh nonce from the backend
type NonceFetcher func(ctx context.Context) (Nonce, error)

// NonceProvider caches the CSRF nonce until its TTL expires or it is invalidated
type NonceProvider struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, Nonce]
	fetch NonceFetcher
}

func NewNonceProvider(ttl time.Duration, fetch NonceFetcher) *NonceProvider {
	nonceCache := ttlcache.New[string, Nonce](
		ttlcache.WithTTL[string, Nonce](ttl),
		ttlcache.WithDisableTouchOnHit[string, Nonce](),
	)
	go nonceCache.Start()

	return &NonceProvider{
		cache: nonceCache,
		fetch: fetch,
	}
}

// Get returns the cached nonce or fetches a new one. Concurrent callers share one fetch.
func (p *NonceProvider) Get(ctx context.Context) (Nonce, error) {
	if item := p.cache.Get(nonceCacheKey); item != nil {
		return item.Value(), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if item := p.cache.Get(nonceCacheKey); item != nil {
		return item.Value(), nil
	}

	nonce, err := p.fetch(ctx)
	if err != nil {
		return Nonce{}, errors.Wrap(err, "failed to fetch csrf nonce")
	}
	if nonce.Key == "" || nonce.Value == "" {
		return Nonce{}, errors.New("backend returned an empty csrf nonce")
	}

	p.cache.Set(nonceCacheKey, nonce, ttlcache.DefaultTTL)
	log.Debugf("PLMClient: Fetched csrf nonce %s", nonce.Key)
	return nonce, nil
}

// Invalidate drops the cached nonce, e.g. after the backend rejected it
func (p *NonceProvider) Invalidate() {
	p.cache.Delete(nonceCacheKey)
}

func (p *NonceProvider) Stop() {
	p.cache.Stop()
}
