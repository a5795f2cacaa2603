package interfaces

import (
	"github.com/relplan/plm-proxy/cache"
	"github.com/relplan/plm-proxy/request_queue"
)

//go:generate mockgen -destination=mocks/cache_admin.go . CacheAdmin

// CacheStats combines the request queue and TTL cache diagnostics
type CacheStats struct {
	Queue request_queue.Stats `json:"queue"`
	Cache cache.ServiceStats  `json:"cache"`
}

// CacheAdmin exposes cache diagnostics and invalidation
type CacheAdmin interface {
	CacheStats() CacheStats

	// ClearCache removes the given keys, or everything when called without keys
	ClearCache(keys ...string)
}
