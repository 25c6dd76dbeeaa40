package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonwraymond/typeahead/auth"
	"github.com/jonwraymond/typeahead/search"
)

func TestConversions(t *testing.T) {
	cfg := validConfig(t)
	cfg.Search.Mode = "prefix"
	cfg.Cache.SkipEmpty = true
	cfg.Users.Auth.Method = "bearer"
	cfg.Users.Auth.Token = "t0ken"

	assert.Equal(t, search.ModePrefix, cfg.SearchMode())

	p := cfg.CachePolicy()
	assert.Equal(t, 10*time.Second, p.DefaultTTL)
	assert.Equal(t, time.Hour, p.MaxTTL)
	assert.True(t, p.SkipEmpty)

	a := cfg.AuthConfig()
	assert.Equal(t, auth.MethodBearer, a.Method)
	assert.Equal(t, "t0ken", a.Token)

	o := cfg.ObserveConfig()
	assert.Equal(t, "typeahead", o.ServiceName)
	assert.True(t, o.Logging.Enabled)
	assert.Equal(t, "info", o.Logging.Level)

	u := cfg.UsersConfig(nil)
	assert.Equal(t, cfg.Users.BaseURL, u.BaseURL)
	assert.Equal(t, 5*time.Second, u.Timeout)
}

func TestExecutor(t *testing.T) {
	cfg := validConfig(t)

	e := cfg.Executor(nil)
	assert.NotNil(t, e)
	assert.NotNil(t, e.CircuitBreaker())

	cfg.Resilience.Breaker.MaxFailures = 0
	assert.Nil(t, cfg.Executor(nil).CircuitBreaker())
}
