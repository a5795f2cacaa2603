package cache

import (
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidCacheConfig is returned by Config.Validate
var ErrInvalidCacheConfig = errors.New("invalid cache config")

// Config configures the TTL cache holding decoded PLM collections
type Config struct {
	Rows RowCacheConfig `yaml:"rows"`
}

// RowCacheConfig configures the in-memory go-cache level.
// Per-entry TTLs come from the data service; DefaultExpiration only applies
// to entries stored without one.
type RowCacheConfig struct {
	DefaultExpiration time.Duration `yaml:"default_expiration"`

	// CleanupInterval is how often expired rows are evicted. 0 disables eviction,
	// expired rows are then only dropped on access.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`

	// Enabled=false turns the cache off; every read misses
	Enabled bool `yaml:"enabled"`
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() Config {
	return Config{
		Rows: RowCacheConfig{
			DefaultExpiration: 5 * time.Minute,
			CleanupInterval:   time.Minute,
			Enabled:           true,
		},
	}
}

// Validate rejects negative durations
func (c Config) Validate() error {
	if c.Rows.DefaultExpiration < 0 {
		return errors.Wrap(ErrInvalidCacheConfig, "rows.default_expiration must not be negative")
	}
	if c.Rows.CleanupInterval < 0 {
		return errors.Wrap(ErrInvalidCacheConfig, "rows.cleanup_interval must not be negative")
	}
	return nil
}
