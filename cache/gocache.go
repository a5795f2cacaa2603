package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// NoExpiration keeps items until they are deleted explicitly
const NoExpiration = cache.NoExpiration

// GoCache is a typed in-memory cache on top of go-cache
type GoCache[V any] struct {
	cache *cache.Cache
}

// NewGoCache creates a new GoCache instance
// defaultExpiration: default expiration time for items (NoExpiration keeps them forever)
// cleanupInterval: interval for cleaning up expired items, <= 0 disables the janitor
func NewGoCache[V any](defaultExpiration, cleanupInterval time.Duration) *GoCache[V] {
	return &GoCache[V]{
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

// GetResult represents the result of a Get operation
type GetResult[V any] struct {
	Found       map[string]V // keys that were found in cache
	MissingKeys []string     // keys that were not found
}

// Get retrieves values for the given keys
func (gc *GoCache[V]) Get(keys []string) GetResult[V] {
	result := GetResult[V]{
		Found:       make(map[string]V),
		MissingKeys: make([]string, 0),
	}

	for _, key := range keys {
		if value, ok := gc.GetOne(key); ok {
			result.Found[key] = value
		} else {
			result.MissingKeys = append(result.MissingKeys, key)
		}
	}

	return result
}

// GetOne retrieves a single value. Values of a foreign type count as missing.
func (gc *GoCache[V]) GetOne(key string) (V, bool) {
	var empty V
	raw, found := gc.cache.Get(key)
	if !found {
		return empty, false
	}
	value, ok := raw.(V)
	if !ok {
		return empty, false
	}
	return value, true
}

// Set stores key-value pairs with specified timeout
// If timeout is 0, uses cache's default expiration
func (gc *GoCache[V]) Set(data map[string]V, timeout time.Duration) {
	for key, value := range data {
		gc.cache.Set(key, value, timeout)
	}
}

// SetOne stores a single value
func (gc *GoCache[V]) SetOne(key string, value V, timeout time.Duration) {
	gc.cache.Set(key, value, timeout)
}

// Delete removes items from cache by keys
func (gc *GoCache[V]) Delete(keys []string) {
	for _, key := range keys {
		gc.cache.Delete(key)
	}
}

// Clear removes all items from cache
func (gc *GoCache[V]) Clear() {
	gc.cache.Flush()
}

// ItemCount returns the number of items in cache, expired but not yet cleaned items included
func (gc *GoCache[V]) ItemCount() int {
	return gc.cache.ItemCount()
}

// Keys returns the keys of all unexpired items
func (gc *GoCache[V]) Keys() []string {
	items := gc.cache.Items()
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	return keys
}

// DeleteExpired manually triggers deletion of expired items
func (gc *GoCache[V]) DeleteExpired() {
	gc.cache.DeleteExpired()
}
