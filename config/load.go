package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jonwraymond/typeahead/secret"
)

// EnvPrefix prefixes every environment override, with dots in keys
// becoming underscores: TYPEAHEAD_USERS_BASE_URL sets users.base_url.
const EnvPrefix = "TYPEAHEAD"

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"users-url": "users.base_url",
	"ttl":       "cache.ttl",
	"mode":      "search.mode",
	"limit":     "search.limit",
	"debounce":  "search.debounce",
	"log-level": "observe.log_level",
	"metrics":   "observe.metrics.exporter",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "5s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("users.base_url", "https://jsonplaceholder.typicode.com/")
	v.SetDefault("users.timeout", "5s")
	v.SetDefault("users.auth.method", "none")
	v.SetDefault("users.auth.token", "")
	v.SetDefault("users.auth.jwt.key", "")
	v.SetDefault("users.auth.jwt.issuer", "typeahead")
	v.SetDefault("users.auth.jwt.subject", "")
	v.SetDefault("users.auth.jwt.audience", "")
	v.SetDefault("users.auth.jwt.ttl", "5m")
	v.SetDefault("users.auth.oauth2.client_id", "")
	v.SetDefault("users.auth.oauth2.client_secret", "")
	v.SetDefault("users.auth.oauth2.token_url", "")
	v.SetDefault("users.auth.oauth2.scopes", []string{})

	v.SetDefault("cache.ttl", "10s")
	v.SetDefault("cache.max_ttl", "1h")
	v.SetDefault("cache.skip_empty", false)

	v.SetDefault("search.mode", "contains")
	v.SetDefault("search.limit", 0)
	v.SetDefault("search.debounce", "500ms")

	v.SetDefault("resilience.timeout", "5s")
	v.SetDefault("resilience.retry.max_attempts", 3)
	v.SetDefault("resilience.retry.initial_delay", "100ms")
	v.SetDefault("resilience.retry.max_delay", "2s")
	v.SetDefault("resilience.breaker.max_failures", 5)
	v.SetDefault("resilience.breaker.reset_timeout", "30s")
	v.SetDefault("resilience.bulkhead.max_concurrent", 4)
	v.SetDefault("resilience.bulkhead.max_wait", "1s")
	v.SetDefault("resilience.rate_limit.rate", 0)
	v.SetDefault("resilience.rate_limit.burst", 0)

	v.SetDefault("observe.service_name", "typeahead")
	v.SetDefault("observe.version", "dev")
	v.SetDefault("observe.log_level", "info")
	v.SetDefault("observe.tracing.enabled", false)
	v.SetDefault("observe.tracing.exporter", "none")
	v.SetDefault("observe.tracing.endpoint", "")
	v.SetDefault("observe.tracing.sample_pct", 1.0)
	v.SetDefault("observe.metrics.enabled", true)
	v.SetDefault("observe.metrics.exporter", "prometheus")
	v.SetDefault("observe.metrics.endpoint", "")

	v.SetDefault("health.timeout", "5s")
	v.SetDefault("health.max_goroutines", 10000)

	v.SetDefault("secrets.dir", "")
}

// Flags returns the flag set Load understands. Callers may add their own
// flags before parsing.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("config", "c", "", "path to a YAML config file")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("users-url", "https://jsonplaceholder.typicode.com/", "users API base URL")
	fs.Duration("ttl", DefaultTTL, "how long a fetched users listing is reused")
	fs.String("mode", "contains", "match mode: contains or prefix")
	fs.Int("limit", 0, "maximum suggestions per query, 0 for all")
	fs.Duration("debounce", DefaultDebounce, "quiet period before an interactive query runs")
	fs.String("log-level", "info", "log level: debug, info, warn, error")
	fs.String("metrics", "prometheus", "metrics exporter: prometheus, otlp, stdout, none")
	return fs
}

// Load reads configuration from, in rising precedence: defaults, the
// config file, TYPEAHEAD_* environment variables and flags that were set
// explicitly. Credential values are then resolved through package secret
// and the result is validated. fs may be nil.
func Load(ctx context.Context, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var path string
	if fs != nil {
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("config: bind flag %s: %w", flag, err)
				}
			}
		}
		path, _ = fs.GetString("config")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("typeahead")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/typeahead")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.resolveSecrets(ctx); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolveSecrets(ctx context.Context) error {
	r := secret.NewResolver(true, secret.EnvProvider{}, secret.FileProvider{Dir: c.Secrets.Dir})
	defer r.Close()

	a := &c.Users.Auth
	if err := r.ResolveInPlace(ctx,
		&c.Users.BaseURL,
		&a.Token,
		&a.JWT.Key,
		&a.OAuth2.ClientID,
		&a.OAuth2.ClientSecret,
		&a.OAuth2.TokenURL,
	); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
