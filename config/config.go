package config

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/relplan/plm-proxy/cache"
	"github.com/relplan/plm-proxy/request_queue"
)

// ErrInvalidConfig is returned by Validate
var ErrInvalidConfig = errors.New("invalid config")

// Environment variables overriding PLM credentials
const (
	EnvPLMUsername = "PLM_USERNAME"
	EnvPLMPassword = "PLM_PASSWORD"
	EnvPLMToken    = "PLM_TOKEN"
)

type Config struct {
	PLM          PLMConfig             `yaml:"plm"`
	RequestQueue request_queue.Options `yaml:"request_queue"`
	Cache        cache.Config          `yaml:"cache"`
	DataService  DataServiceConfig     `yaml:"data_service"`
	Server       ServerConfig          `yaml:"server"`
}

// ServerConfig configures the HTTP API used by the dashboard widgets
type ServerConfig struct {
	Port string `yaml:"port"`
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() *Config {
	cfg := &Config{
		Cache: cache.DefaultCacheConfig(),
	}
	cfg.applyDefaults()
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	config := Config{
		Cache: cache.DefaultCacheConfig(),
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	config.applyDefaults()
	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Infof("Config: Loaded %s (PLM %s, %d programs)", path, config.PLM.BaseURL, len(config.DataService.Programs))
	return &config, nil
}

func (c *Config) applyDefaults() {
	c.RequestQueue = c.RequestQueue.Merge(request_queue.DefaultOptions())
	c.PLM.applyDefaults()
	c.DataService.applyDefaults()
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvPLMUsername); ok {
		c.PLM.Username = v
	}
	if v, ok := os.LookupEnv(EnvPLMPassword); ok {
		c.PLM.Password = v
	}
	if v, ok := os.LookupEnv(EnvPLMToken); ok {
		c.PLM.Token = v
	}
}

// Validate checks required values
func (c *Config) Validate() error {
	if c.PLM.BaseURL == "" {
		return errors.Wrap(ErrInvalidConfig, "plm.base_url is required")
	}
	if c.PLM.Username != "" && c.PLM.Token != "" {
		return errors.Wrap(ErrInvalidConfig, "plm.username and plm.token are mutually exclusive")
	}
	if err := c.Cache.Validate(); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if c.DataService.MaxParallelRows < 0 {
		return errors.Wrap(ErrInvalidConfig, "data_service.max_parallel_rows must not be negative")
	}
	return nil
}
