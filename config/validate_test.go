package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/typeahead/auth"
	"github.com/jonwraymond/typeahead/search"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(context.Background(), nil)
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: ErrInvalid},
		{name: "relative base url", mutate: func(c *Config) { c.Users.BaseURL = "/users" }, wantErr: ErrInvalid},
		{name: "ftp base url", mutate: func(c *Config) { c.Users.BaseURL = "ftp://example.com/" }, wantErr: ErrInvalid},
		{name: "zero users timeout", mutate: func(c *Config) { c.Users.Timeout = 0 }, wantErr: ErrInvalid},
		{name: "zero ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: ErrInvalid},
		{name: "max ttl below ttl", mutate: func(c *Config) { c.Cache.MaxTTL = time.Second }, wantErr: ErrInvalid},
		{name: "unbounded max ttl", mutate: func(c *Config) { c.Cache.MaxTTL = 0 }},
		{name: "unknown mode", mutate: func(c *Config) { c.Search.Mode = "fuzzy" }, wantErr: search.ErrInvalidMode},
		{name: "negative limit", mutate: func(c *Config) { c.Search.Limit = -1 }, wantErr: ErrInvalid},
		{name: "negative retries", mutate: func(c *Config) { c.Resilience.Retry.MaxAttempts = -1 }, wantErr: ErrInvalid},
		{name: "unknown auth method", mutate: func(c *Config) { c.Users.Auth.Method = "kerberos" }, wantErr: auth.ErrUnknownMethod},
		{name: "bearer without token", mutate: func(c *Config) { c.Users.Auth.Method = "bearer" }, wantErr: auth.ErrMissingCredentials},
		{name: "bad log level", mutate: func(c *Config) { c.Observe.LogLevel = "verbose" }, wantErr: ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig(t)
	cfg.Server.Addr = ""
	cfg.Search.Limit = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.addr")
	assert.Contains(t, err.Error(), "search.limit")
}
