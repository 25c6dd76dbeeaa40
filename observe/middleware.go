package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/typeahead/cache"
)

// Middleware wraps producers with tracing and logging. Cache-level metrics
// come from CacheObserver, so Middleware records none.
//
// Contract:
//   - Concurrency: wrapped producers are safe for concurrent use.
//   - Context: the span context is passed to the wrapped producer.
//   - Errors: producer errors are recorded and returned unchanged.
type Middleware struct {
	tracer Tracer
	logger Logger
}

// NewMiddleware creates a new Middleware. Nil arguments fall back to no-ops.
func NewMiddleware(tracer Tracer, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, logger: logger}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	return NewMiddleware(NewTracer(obs.Tracer()), obs.Logger()), nil
}

// InstrumentProducer wraps p so that every call runs inside a span named by
// meta and is logged on completion.
func InstrumentProducer[V any](m *Middleware, meta FillMeta, p cache.Producer[V]) cache.Producer[V] {
	if m == nil || p == nil {
		return p
	}
	return func(ctx context.Context) (V, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		value, err := p(ctx)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)

		fields := []Field{
			{Key: "cache.namespace", Value: meta.Namespace},
			{Key: "cache.key", Value: meta.Key},
			{Key: "duration_ms", Value: duration},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err})
			m.logger.Error(ctx, "producer call failed", fields...)
		} else {
			m.logger.Info(ctx, "producer call completed", fields...)
		}

		return value, err
	}
}
