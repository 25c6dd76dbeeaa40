package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/jonwraymond/typeahead/auth"
	"github.com/jonwraymond/typeahead/config"
	"github.com/jonwraymond/typeahead/health"
	"github.com/jonwraymond/typeahead/observe"
	"github.com/jonwraymond/typeahead/search"
	"github.com/jonwraymond/typeahead/users"
)

// app holds the wired components shared by every command.
type app struct {
	cfg    *config.Config
	obs    observe.Observer
	logger observe.Logger
	client *users.Client
	svc    *search.Service
	health *health.Aggregator
}

func newApp(ctx context.Context, fs *pflag.FlagSet, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(ctx, fs)
	if err != nil {
		return nil, err
	}

	obsCfg := cfg.ObserveConfig()
	obsCfg.Logging.Writer = stderr
	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}
	a := &app{cfg: cfg, obs: obs, logger: obs.Logger()}

	if err := a.wire(ctx); err != nil {
		return nil, errors.Join(err, obs.Shutdown(context.Background()))
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	httpClient, err := auth.NewHTTPClient(ctx, cfg.AuthConfig(), nil)
	if err != nil {
		return err
	}
	ucfg := cfg.UsersConfig(a.logger.With(observe.Field{Key: "component", Value: "users"}))
	ucfg.HTTPClient = httpClient
	a.client, err = users.NewClient(ucfg)
	if err != nil {
		return err
	}

	cacheObs, err := observe.CacheObserverFrom(a.obs)
	if err != nil {
		return err
	}
	mw, err := observe.MiddlewareFromObserver(a.obs)
	if err != nil {
		return err
	}
	policy := cfg.CachePolicy()
	a.svc, err = search.NewService(a.client, search.Config{
		TTL:        cfg.Cache.TTL,
		Mode:       cfg.SearchMode(),
		Limit:      cfg.Search.Limit,
		Policy:     &policy,
		Executor:   cfg.Executor(a.logger),
		Observer:   cacheObs,
		Middleware: mw,
		Upstream:   a.client.URL(),
		Logger:     a.logger,
	})
	if err != nil {
		return err
	}

	a.health = health.NewAggregator(health.AggregatorConfig{
		Timeout:  cfg.Health.Timeout,
		Parallel: true,
		Logger:   a.logger,
	})
	upstream := health.NewUpstreamChecker("users", a.client, cfg.Users.Timeout)
	memo := health.NewCacheChecker(a.svc.Memo())
	rt := health.NewRuntimeChecker(health.RuntimeCheckerConfig{MaxGoroutines: cfg.Health.MaxGoroutines})
	for _, c := range []health.Checker{upstream, memo, rt} {
		a.health.Register(c.Name(), c)
	}

	a.logger.Debug(ctx, "typeahead wired",
		observe.Field{Key: "users_url", Value: a.client.URL()},
		observe.Field{Key: "mode", Value: string(a.svc.Mode())},
		observe.Field{Key: "ttl", Value: cfg.Cache.TTL},
	)
	return nil
}

func (a *app) close(ctx context.Context) error {
	a.svc.Memo().Purge()
	return a.obs.Shutdown(ctx)
}
