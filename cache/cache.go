package cache

import (
	"context"
	"time"
)

// LoaderFunc loads data for keys that are missing from the cache.
// It should return a key->data map for those keys.
type LoaderFunc func(ctx context.Context, missingKeys []string) (map[string][]byte, error)

// Cache is the TTL byte cache used by the data services
//
//go:generate mockgen -destination=mocks/cache.go . Cache
type Cache interface {
	// GetOrLoad retrieves data by keys from cache or loads them using LoaderFunc
	//
	// Parameters:
	// - keys: list of keys to retrieve data for
	// - loader: function to load missing data
	// - loadOnlyMissingKeys: if true, loader is called only with missing keys;
	//   if false, when any data is missing, loader is called with all keys
	// - ttl: time to live for loaded data; if 0, uses cache's default expiration
	GetOrLoad(ctx context.Context, keys []string, loader LoaderFunc, loadOnlyMissingKeys bool, ttl time.Duration) (map[string][]byte, error)

	// Get returns found data and the list of missing keys
	Get(keys []string) (map[string][]byte, []string)

	// Set stores data in cache with the specified TTL
	Set(data map[string][]byte, ttl time.Duration)

	// Delete removes items by keys
	Delete(keys []string)

	// Clear removes all items
	Clear()

	// Stats returns statistics about the cache
	Stats() ServiceStats
}
