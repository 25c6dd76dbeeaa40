package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/typeahead/cache"
)

// CacheObserver records cache events as OpenTelemetry metrics and log lines.
// It implements cache.Observer.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - OnEvent does not block and never panics on a well-formed event.
type CacheObserver struct {
	logger       Logger
	requests     metric.Int64Counter
	failures     metric.Int64Counter
	expirations  metric.Int64Counter
	panics       metric.Int64Counter
	fillDuration metric.Float64Histogram
	waiters      metric.Int64Histogram
}

// NewCacheObserver creates the cache instruments on meter. A nil logger
// disables event logging.
func NewCacheObserver(meter metric.Meter, logger Logger) (*CacheObserver, error) {
	if logger == nil {
		logger = NopLogger()
	}

	requests, err := meter.Int64Counter(
		"cache.requests",
		metric.WithDescription("Cache requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"cache.producer.failures",
		metric.WithDescription("Producer calls that returned an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	expirations, err := meter.Int64Counter(
		"cache.expirations",
		metric.WithDescription("Entries removed after their TTL elapsed"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	panics, err := meter.Int64Counter(
		"cache.continuation.panics",
		metric.WithDescription("Continuations that panicked during delivery"),
		metric.WithUnit("{panic}"),
	)
	if err != nil {
		return nil, err
	}

	fillDuration, err := meter.Float64Histogram(
		"cache.producer.duration_ms",
		metric.WithDescription("Producer call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	waiters, err := meter.Int64Histogram(
		"cache.waiters",
		metric.WithDescription("Continuations notified per producer call"),
		metric.WithUnit("{waiter}"),
	)
	if err != nil {
		return nil, err
	}

	return &CacheObserver{
		logger:       logger,
		requests:     requests,
		failures:     failures,
		expirations:  expirations,
		panics:       panics,
		fillDuration: fillDuration,
		waiters:      waiters,
	}, nil
}

// CacheObserverFrom builds a CacheObserver from obs's meter and logger.
func CacheObserverFrom(obs Observer) (*CacheObserver, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	return NewCacheObserver(obs.Meter(), obs.Logger())
}

// OnEvent implements cache.Observer.
func (o *CacheObserver) OnEvent(ctx context.Context, ev cache.Event) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.namespace", ev.Namespace),
	}
	opt := metric.WithAttributes(attrs...)

	fields := []Field{
		{Key: "cache.namespace", Value: ev.Namespace},
		{Key: "cache.key", Value: ev.Key},
	}

	switch ev.Kind {
	case cache.EventHit, cache.EventMiss, cache.EventCoalesced:
		o.requests.Add(ctx, 1, metric.WithAttributes(
			append(attrs, attribute.String("cache.outcome", ev.Kind.String()))...,
		))
		if ev.Kind == cache.EventCoalesced {
			fields = append(fields, Field{Key: "waiters", Value: ev.Waiters})
		}
		o.logger.Debug(ctx, "cache "+ev.Kind.String(), fields...)

	case cache.EventFilled:
		o.fillDuration.Record(ctx, durationMs(ev.Duration), metric.WithAttributes(
			append(attrs, attribute.Bool("cache.error", false))...,
		))
		o.waiters.Record(ctx, int64(ev.Waiters), opt)
		o.logger.Debug(ctx, "cache filled", append(fields,
			Field{Key: "duration_ms", Value: ev.Duration},
			Field{Key: "waiters", Value: ev.Waiters},
			Field{Key: "cached", Value: ev.Cached},
		)...)

	case cache.EventFailed:
		o.failures.Add(ctx, 1, opt)
		o.fillDuration.Record(ctx, durationMs(ev.Duration), metric.WithAttributes(
			append(attrs, attribute.Bool("cache.error", true))...,
		))
		o.waiters.Record(ctx, int64(ev.Waiters), opt)
		o.logger.Warn(ctx, "cache producer failed", append(fields,
			Field{Key: "duration_ms", Value: ev.Duration},
			Field{Key: "waiters", Value: ev.Waiters},
			Field{Key: "error", Value: ev.Err},
		)...)

	case cache.EventExpired:
		o.expirations.Add(ctx, 1, opt)
		o.logger.Debug(ctx, "cache entry expired", fields...)

	case cache.EventContinuationPanic:
		o.panics.Add(ctx, 1, opt)
		o.logger.Error(ctx, "cache continuation panicked", append(fields,
			Field{Key: "error", Value: ev.Err},
		)...)
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

var _ cache.Observer = (*CacheObserver)(nil)
