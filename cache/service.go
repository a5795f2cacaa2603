package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Service implements Cache with go-cache as the only level
type Service struct {
	goCache *GoCache[[]byte]
	config  Config
}

// NewService creates a new cache service with the given configuration
func NewService(config Config) *Service {
	return &Service{
		goCache: NewGoCache[[]byte](config.Rows.DefaultExpiration, config.Rows.CleanupInterval),
		config:  config,
	}
}

// Start implements core.Interface
func (s *Service) Start(ctx context.Context) error {
	if s.goCache == nil {
		return errors.New("cache service not properly initialized")
	}
	return nil
}

// Stop implements core.Interface
func (s *Service) Stop() {
	if s.goCache != nil {
		s.goCache.Clear()
	}
}

// GetOrLoad retrieves data by keys from local cache or loads them using LoaderFunc
func (s *Service) GetOrLoad(ctx context.Context, keys []string, loader LoaderFunc, loadOnlyMissingKeys bool, ttl time.Duration) (map[string][]byte, error) {
	if len(keys) == 0 {
		return make(map[string][]byte), nil
	}

	// Step 1: Get from local cache
	result, missingKeys := s.Get(keys)

	// Step 2: Load missing data if needed
	if len(missingKeys) > 0 {
		keysToLoad := s.determineKeysToLoad(keys, missingKeys, loadOnlyMissingKeys)

		loadedData, err := s.loadAndCacheLocal(ctx, keysToLoad, loader, ttl)
		if err != nil {
			return nil, err
		}

		for key, value := range loadedData {
			result[key] = value
		}
	}

	// Step 3: Prepare final result
	return s.prepareFinalResult(keys, result, loadOnlyMissingKeys), nil
}

// Get returns cached data and missing keys. A disabled cache misses every key.
func (s *Service) Get(keys []string) (map[string][]byte, []string) {
	if !s.config.Rows.Enabled {
		return make(map[string][]byte), append([]string(nil), keys...)
	}
	res := s.goCache.Get(keys)
	return res.Found, res.MissingKeys
}

// Set stores data in cache with the specified TTL
func (s *Service) Set(data map[string][]byte, ttl time.Duration) {
	if !s.config.Rows.Enabled || len(data) == 0 {
		return
	}
	s.goCache.Set(data, ttl)
}

// loadAndCacheLocal loads data using loader function and updates local cache
func (s *Service) loadAndCacheLocal(ctx context.Context, keysToLoad []string, loader LoaderFunc, ttl time.Duration) (map[string][]byte, error) {
	loadedData, err := loader(ctx, keysToLoad)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load data")
	}

	s.Set(loadedData, ttl)
	return loadedData, nil
}

// determineKeysToLoad decides which keys to load based on loadOnlyMissingKeys parameter
func (s *Service) determineKeysToLoad(originalKeys, missingKeys []string, loadOnlyMissingKeys bool) []string {
	if loadOnlyMissingKeys {
		return missingKeys
	}
	return originalKeys
}

// prepareFinalResult keeps only the requested keys
func (s *Service) prepareFinalResult(originalKeys []string, cachedData map[string][]byte, loadOnlyMissingKeys bool) map[string][]byte {
	if loadOnlyMissingKeys {
		return cachedData
	}

	result := make(map[string][]byte)
	for _, key := range originalKeys {
		if value, exists := cachedData[key]; exists {
			result[key] = value
		}
	}
	return result
}

// Stats returns statistics about the cache service
func (s *Service) Stats() ServiceStats {
	return ServiceStats{
		Items:   s.goCache.ItemCount(),
		Enabled: s.config.Rows.Enabled,
	}
}

// ServiceStats represents cache service statistics
type ServiceStats struct {
	Items   int  `json:"items"`
	Enabled bool `json:"enabled"`
}

// Delete removes items from cache by keys
func (s *Service) Delete(keys []string) {
	s.goCache.Delete(keys)
}

// Clear removes all items from cache
func (s *Service) Clear() {
	s.goCache.Clear()
}

var _ Cache = (*Service)(nil)
