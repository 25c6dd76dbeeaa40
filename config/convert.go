package config

import (
	"context"
	"time"

	"github.com/jonwraymond/typeahead/auth"
	"github.com/jonwraymond/typeahead/cache"
	"github.com/jonwraymond/typeahead/observe"
	"github.com/jonwraymond/typeahead/resilience"
	"github.com/jonwraymond/typeahead/search"
	"github.com/jonwraymond/typeahead/users"
)

const (
	DefaultTTL      = search.DefaultTTL
	DefaultDebounce = search.DefaultDebounce
)

// AuthConfig converts the upstream credentials.
func (c *Config) AuthConfig() auth.Config {
	a := c.Users.Auth
	return auth.Config{
		Method: auth.Method(a.Method),
		Token:  a.Token,
		JWT: auth.JWTConfig{
			Key:      a.JWT.Key,
			Issuer:   a.JWT.Issuer,
			Subject:  a.JWT.Subject,
			Audience: a.JWT.Audience,
			TTL:      a.JWT.TTL,
		},
		OAuth2: auth.OAuth2Config{
			ClientID:     a.OAuth2.ClientID,
			ClientSecret: a.OAuth2.ClientSecret,
			TokenURL:     a.OAuth2.TokenURL,
			Scopes:       a.OAuth2.Scopes,
		},
	}
}

// ObserveConfig converts the telemetry settings.
func (c *Config) ObserveConfig() observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     o.Version,
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			Endpoint:  o.Tracing.Endpoint,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
			Endpoint: o.Metrics.Endpoint,
		},
		Logging: observe.LoggingConfig{Enabled: true, Level: o.LogLevel},
	}
}

// CachePolicy converts the cache settings.
func (c *Config) CachePolicy() cache.Policy {
	return cache.Policy{
		DefaultTTL: c.Cache.TTL,
		MaxTTL:     c.Cache.MaxTTL,
		SkipEmpty:  c.Cache.SkipEmpty,
	}
}

// SearchMode returns the parsed match mode. Validate has already
// rejected unknown modes.
func (c *Config) SearchMode() search.Mode {
	m, _ := search.ParseMode(c.Search.Mode)
	return m
}

// Executor builds the resilience stack for upstream calls. Policies with
// zero settings are left out. Retries apply only to users.IsRetryable
// errors, and only network or 5xx failures trip the breaker.
func (c *Config) Executor(logger observe.Logger) *resilience.Executor {
	if logger == nil {
		logger = observe.NopLogger()
	}
	r := c.Resilience
	var opts []resilience.ExecutorOption

	if r.RateLimit.Rate > 0 {
		opts = append(opts, resilience.WithRateLimiter(resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Rate:        r.RateLimit.Rate,
			Burst:       r.RateLimit.Burst,
			WaitOnLimit: true,
		})))
	}
	if r.Bulkhead.MaxConcurrent > 0 {
		opts = append(opts, resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: r.Bulkhead.MaxConcurrent,
			MaxWait:       r.Bulkhead.MaxWait,
		})))
	}
	if r.Breaker.MaxFailures > 0 {
		opts = append(opts, resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			MaxFailures:  r.Breaker.MaxFailures,
			ResetTimeout: r.Breaker.ResetTimeout,
			IsFailure:    users.IsRetryable,
			OnStateChange: func(from, to resilience.State) {
				logger.Warn(context.Background(), "users circuit breaker state changed",
					observe.Field{Key: "from", Value: from.String()},
					observe.Field{Key: "to", Value: to.String()},
				)
			},
		})))
	}
	if r.Retry.MaxAttempts > 1 {
		opts = append(opts, resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			MaxAttempts:  r.Retry.MaxAttempts,
			InitialDelay: r.Retry.InitialDelay,
			MaxDelay:     r.Retry.MaxDelay,
			Jitter:       true,
			RetryIf:      users.IsRetryable,
			OnRetry: func(attempt int, err error, delay time.Duration) {
				logger.Debug(context.Background(), "retrying users request",
					observe.Field{Key: "attempt", Value: attempt},
					observe.Field{Key: "delay", Value: delay},
					observe.Field{Key: "error", Value: err},
				)
			},
		})))
	}
	if r.Timeout > 0 {
		opts = append(opts, resilience.WithTimeout(r.Timeout))
	}
	return resilience.NewExecutor(opts...)
}

// UsersConfig converts the upstream client settings. The HTTP client is
// left to the caller so credentials can be attached.
func (c *Config) UsersConfig(logger observe.Logger) users.Config {
	return users.Config{
		BaseURL: c.Users.BaseURL,
		Timeout: c.Users.Timeout,
		Logger:  logger,
	}
}
