package plm_client

import (
	"math"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/relplan/plm-proxy/config"
)

// IRateLimiterManager provides a way to get a rate limiter for a request URL
//
//go:generate mockgen -destination=mocks/rate_limiter_manager.go . IRateLimiterManager
type IRateLimiterManager interface {
	GetLimiterForURL(u *url.URL) *rate.Limiter
}

// RateLimiterManager keeps one limiter per PLM host
type RateLimiterManager struct {
	mu            sync.RWMutex
	hostToLimiter map[string]*rate.Limiter
	config        config.RateLimit
}

// Defaults in requests per minute, used when config is not provided
const defaultRPM = 600

func NewRateLimiterManager(cfg config.RateLimit) *RateLimiterManager {
	return &RateLimiterManager{
		hostToLimiter: make(map[string]*rate.Limiter),
		config:        cfg,
	}
}

// GetLimiterForURL returns the limiter of the URL host, creating it if missing.
// URLs without a host get no limiter.
func (m *RateLimiterManager) GetLimiterForURL(u *url.URL) *rate.Limiter {
	if m == nil || u == nil {
		return nil
	}

	host := u.Hostname()
	if host == "" {
		return nil
	}

	m.mu.RLock()
	if lim, ok := m.hostToLimiter[host]; ok {
		m.mu.RUnlock()
		return lim
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if lim, ok := m.hostToLimiter[host]; ok {
		return lim
	}

	limiter := m.newLimiterLocked()
	m.hostToLimiter[host] = limiter
	return limiter
}

func (m *RateLimiterManager) newLimiterLocked() *rate.Limiter {
	rpm := m.config.RateLimitPerMinute
	if rpm <= 0 {
		rpm = defaultRPM
	}
	limit := rate.Limit(float64(rpm) / 60.0)

	burst := m.config.Burst
	if burst <= 0 {
		// at least one token, otherwise ~1 second worth of requests
		burst = int(math.Max(1, math.Ceil(float64(limit))))
	}
	return rate.NewLimiter(limit, burst)
}
