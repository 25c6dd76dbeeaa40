package cache

import (
	"context"
	"time"
)

// EventKind identifies a cache lifecycle event.
type EventKind int

const (
	// EventHit is emitted when a request is answered from a live entry.
	EventHit EventKind = iota
	// EventMiss is emitted when a request starts a producer call.
	EventMiss
	// EventCoalesced is emitted when a request joins an in-flight call.
	EventCoalesced
	// EventFilled is emitted when a producer call succeeds.
	EventFilled
	// EventFailed is emitted when a producer call fails.
	EventFailed
	// EventExpired is emitted when an entry's TTL elapses.
	EventExpired
	// EventContinuationPanic is emitted when a continuation panics.
	EventContinuationPanic
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventMiss:
		return "miss"
	case EventCoalesced:
		return "coalesced"
	case EventFilled:
		return "filled"
	case EventFailed:
		return "failed"
	case EventExpired:
		return "expired"
	case EventContinuationPanic:
		return "continuation_panic"
	default:
		return "unknown"
	}
}

// Event carries the details of a cache event. Fields that do not apply to
// the event kind are zero.
type Event struct {
	Kind      EventKind
	Namespace string
	Key       string

	// Waiters is the number of continuations attached to the flight: the
	// queue length for EventCoalesced, the notified count for EventFilled
	// and EventFailed.
	Waiters int

	// Duration is the producer call time for EventFilled and EventFailed.
	Duration time.Duration

	// Cached reports whether an EventFilled result was stored.
	Cached bool

	Err error
}

// Observer receives cache lifecycle events.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - OnEvent is called outside the cache's lock and must not block.
type Observer interface {
	OnEvent(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, ev Event)

// OnEvent calls f(ctx, ev).
func (f ObserverFunc) OnEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}

type nopObserver struct{}

func (nopObserver) OnEvent(context.Context, Event) {}
