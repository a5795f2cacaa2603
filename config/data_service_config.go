package config

import "time"

// DataServiceConfig configures the release-planning data services
type DataServiceConfig struct {
	// TTL of decoded rows kept for dashboard reads
	TTL time.Duration `yaml:"ttl"`

	// Programs warmed up on start and refreshed periodically
	Programs []string `yaml:"programs"`

	// RefreshInterval of the periodic refresh, 0 disables it
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// MaxParallelRows bounds the number of row requests handed to the queue at once
	MaxParallelRows int `yaml:"max_parallel_rows"`

	// PageSize is the $top used for list requests
	PageSize int `yaml:"page_size"`
}

func (c *DataServiceConfig) applyDefaults() {
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxParallelRows == 0 {
		c.MaxParallelRows = 32
	}
	if c.PageSize <= 0 {
		c.PageSize = 500
	}
}

// GetTTL returns the TTL with a default value
func (c *DataServiceConfig) GetTTL() time.Duration {
	if c.TTL <= 0 {
		return 5 * time.Minute
	}
	return c.TTL
}
