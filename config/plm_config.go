package config

import "time"

// PLMConfig configures access to the PLM backend
type PLMConfig struct {
	// BaseURL of the OData services, e.g. https://plm.example.com/Windchill/servlet/odata
	BaseURL string `yaml:"base_url"`

	// Basic auth credentials; Token is sent as bearer token instead when set
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`

	// RequestTimeout is the transport timeout for a single request
	RequestTimeout time.Duration `yaml:"request_timeout"`

	RateLimit RateLimit       `yaml:"rate_limit"`
	CSRF      CSRFConfig      `yaml:"csrf"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
}

// RateLimit represents a simple rpm + burst pair. Zero values use defaults.
type RateLimit struct {
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	Burst              int `yaml:"burst"`
}

// CSRFConfig configures the nonce required by mutating requests
type CSRFConfig struct {
	// Path returning {"NonceKey": "...", "NonceValue": "..."}
	Path string        `yaml:"path"`
	TTL  time.Duration `yaml:"ttl"`
}

// EndpointsConfig holds the entity set paths relative to BaseURL
type EndpointsConfig struct {
	Parts          string `yaml:"parts"`
	ChangeActions  string `yaml:"change_actions"`
	ChangeRequests string `yaml:"change_requests"`
	Phases         string `yaml:"phases"`
}

func (c *PLMConfig) applyDefaults() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 10 * time.Second
	}
	if c.RateLimit.RateLimitPerMinute <= 0 {
		c.RateLimit.RateLimitPerMinute = 600
	}
	if c.CSRF.Path == "" {
		c.CSRF.Path = "/PTC/GetCSRFToken()"
	}
	if c.CSRF.TTL <= 0 {
		c.CSRF.TTL = 10 * time.Minute
	}
	if c.Endpoints.Parts == "" {
		c.Endpoints.Parts = "/ProdMgmt/Parts"
	}
	if c.Endpoints.ChangeActions == "" {
		c.Endpoints.ChangeActions = "/ChangeMgmt/ChangeTasks"
	}
	if c.Endpoints.ChangeRequests == "" {
		c.Endpoints.ChangeRequests = "/ChangeMgmt/ChangeRequests"
	}
	if c.Endpoints.Phases == "" {
		c.Endpoints.Phases = "/ProjMgmt/Phases"
	}
}
