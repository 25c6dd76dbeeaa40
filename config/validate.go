package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/jonwraymond/typeahead/search"
)

// ErrInvalid matches every validation failure.
var ErrInvalid = errors.New("config: invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the configuration as a whole and reports every problem
// found.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, invalid("server.addr is required"))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, invalid("server.shutdown_timeout must not be negative"))
	}

	if u, err := url.Parse(c.Users.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, invalid("users.base_url %q must be an absolute http(s) URL", c.Users.BaseURL))
	}
	if c.Users.Timeout <= 0 {
		errs = append(errs, invalid("users.timeout must be positive"))
	}
	if err := c.AuthConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: users.auth: %w", ErrInvalid, err))
	}

	if c.Cache.TTL <= 0 {
		errs = append(errs, invalid("cache.ttl must be positive"))
	}
	if c.Cache.MaxTTL < 0 || (c.Cache.MaxTTL > 0 && c.Cache.MaxTTL < c.Cache.TTL) {
		errs = append(errs, invalid("cache.max_ttl %v must be zero or at least cache.ttl %v", c.Cache.MaxTTL, c.Cache.TTL))
	}

	if _, err := search.ParseMode(c.Search.Mode); err != nil {
		errs = append(errs, fmt.Errorf("%w: search.mode: %w", ErrInvalid, err))
	}
	if c.Search.Limit < 0 {
		errs = append(errs, invalid("search.limit must not be negative"))
	}

	r := c.Resilience
	if r.Retry.MaxAttempts < 0 || r.Breaker.MaxFailures < 0 || r.Bulkhead.MaxConcurrent < 0 || r.RateLimit.Rate < 0 {
		errs = append(errs, invalid("resilience settings must not be negative"))
	}

	obs := c.ObserveConfig()
	if err := obs.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: observe: %w", ErrInvalid, err))
	}

	return errors.Join(errs...)
}
