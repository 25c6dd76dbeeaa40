package config

import (
	"time"
)

// Config is the complete typeahead configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Users      UsersConfig      `mapstructure:"users"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Search     SearchConfig     `mapstructure:"search"`
	Resilience ResilienceConfig `mapstructure:"resilience"`
	Observe    ObserveConfig    `mapstructure:"observe"`
	Health     HealthConfig     `mapstructure:"health"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UsersConfig configures the upstream users API.
type UsersConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// AuthConfig holds upstream credentials. Credential values may be
// secretref: references.
type AuthConfig struct {
	Method string       `mapstructure:"method"`
	Token  string       `mapstructure:"token"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	OAuth2 OAuth2Config `mapstructure:"oauth2"`
}

type JWTConfig struct {
	Key      string        `mapstructure:"key"`
	Issuer   string        `mapstructure:"issuer"`
	Subject  string        `mapstructure:"subject"`
	Audience string        `mapstructure:"audience"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type OAuth2Config struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	TokenURL     string   `mapstructure:"token_url"`
	Scopes       []string `mapstructure:"scopes"`
}

// CacheConfig configures the users memo.
type CacheConfig struct {
	TTL       time.Duration `mapstructure:"ttl"`
	MaxTTL    time.Duration `mapstructure:"max_ttl"`
	SkipEmpty bool          `mapstructure:"skip_empty"`
}

// SearchConfig configures matching.
type SearchConfig struct {
	Mode     string        `mapstructure:"mode"`
	Limit    int           `mapstructure:"limit"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// ResilienceConfig configures the policies around upstream calls. A zero
// value in a sub-block disables that policy.
type ResilienceConfig struct {
	Timeout   time.Duration   `mapstructure:"timeout"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Bulkhead  BulkheadConfig  `mapstructure:"bulkhead"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

type BreakerConfig struct {
	MaxFailures  int           `mapstructure:"max_failures"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout"`
}

type BulkheadConfig struct {
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	MaxWait       time.Duration `mapstructure:"max_wait"`
}

type RateLimitConfig struct {
	Rate  float64 `mapstructure:"rate"`
	Burst int     `mapstructure:"burst"`
}

// ObserveConfig configures logging, metrics and tracing.
type ObserveConfig struct {
	ServiceName string        `mapstructure:"service_name"`
	Version     string        `mapstructure:"version"`
	LogLevel    string        `mapstructure:"log_level"`
	Tracing     TracingConfig `mapstructure:"tracing"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Exporter  string  `mapstructure:"exporter"`
	Endpoint  string  `mapstructure:"endpoint"`
	SamplePct float64 `mapstructure:"sample_pct"`
}

type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig configures the health aggregator.
type HealthConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxGoroutines int           `mapstructure:"max_goroutines"`
}

// SecretsConfig configures secretref resolution.
type SecretsConfig struct {
	// Dir is the root for secretref:file: references.
	Dir string `mapstructure:"dir"`
}
