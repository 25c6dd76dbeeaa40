package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/typeahead/server"
)

func serve(ctx context.Context, fs *pflag.FlagSet, _ io.Reader, _, stderr io.Writer) (err error) {
	a, err := newApp(ctx, fs, stderr)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = errors.Join(err, a.close(shutdownCtx))
	}()

	sc := a.cfg.Server
	srv, err := server.New(server.Config{
		Addr:            sc.Addr,
		ReadTimeout:     sc.ReadTimeout,
		WriteTimeout:    sc.WriteTimeout,
		ShutdownTimeout: sc.ShutdownTimeout,
		Suggester:       a.svc,
		Stats:           a.svc.Memo(),
		Health:          a.health,
		Metrics:         a.obs.MetricsHandler(),
		Logger:          a.logger,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}
