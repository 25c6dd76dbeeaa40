package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// Memo is a coalescing, TTL-bounded memoization cache.
//
// For every key a Memo holds at most one of: a cached entry, or an in-flight
// producer call with its queue of waiters. Both maps are guarded by a single
// mutex, so dispatch and settlement are indivisible with respect to each
// other; producer calls and continuation callbacks run outside the lock.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Isolation: Memos share no state; create one per logical resource.
// - Errors: failures are delivered to waiters, never panicked or stored.
type Memo[V any] struct {
	namespace       string
	policy          Policy
	observer        Observer
	now             func() time.Time
	producerTimeout time.Duration

	mu       sync.Mutex
	entries  map[string]*entry[V]
	inflight map[string]*flight[V]
	stats    Stats
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
	timer     *time.Timer
}

type flight[V any] struct {
	waiters []Continuation[V]
}

type options struct {
	namespace       string
	policy          Policy
	observer        Observer
	now             func() time.Time
	producerTimeout time.Duration
}

// Option configures a Memo created by New.
type Option func(*options)

// WithNamespace names the Memo in events and errors.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithPolicy sets the TTL policy. Default: UnboundedPolicy().
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithObserver attaches an Observer that receives lifecycle events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithClock overrides the clock used for lazy expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithProducerTimeout bounds every producer call. Zero means no bound.
func WithProducerTimeout(d time.Duration) Option {
	return func(o *options) {
		o.producerTimeout = d
	}
}

// New creates an empty Memo.
func New[V any](opts ...Option) *Memo[V] {
	o := options{
		policy:   UnboundedPolicy(),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Memo[V]{
		namespace:       o.namespace,
		policy:          o.policy,
		observer:        o.observer,
		now:             o.now,
		producerTimeout: o.producerTimeout,
		entries:         make(map[string]*entry[V]),
		inflight:        make(map[string]*flight[V]),
	}
}

// Namespace returns the name given with WithNamespace.
func (m *Memo[V]) Namespace() string {
	return m.namespace
}

// Request resolves key and hands the result to onResult.
//
//   - A live entry answers immediately on the calling goroutine.
//   - If a producer call for key is in flight, onResult is queued behind it.
//   - Otherwise producer is called once, on a new goroutine, with a context
//     that keeps ctx's values but not its cancellation.
//
// On success the value is stored for ttl and every waiter receives it in
// arrival order. A ttl <= 0 means the policy's DefaultTTL; a positive ttl is
// only shortened when the policy sets MaxTTL. On failure nothing is stored and every
// waiter receives a *ProducerError. Request never blocks on the producer.
func (m *Memo[V]) Request(ctx context.Context, key string, ttl time.Duration, producer Producer[V], onResult Continuation[V]) {
	if onResult == nil {
		onResult = func(Result[V]) {}
	}
	if err := ValidateKey(key); err != nil {
		m.deliver(ctx, key, onResult, Result[V]{Err: err})
		return
	}
	if producer == nil {
		m.deliver(ctx, key, onResult, Result[V]{Err: ErrNilProducer})
		return
	}

	m.mu.Lock()

	expired := false
	if e, ok := m.entries[key]; ok {
		if m.now().Before(e.expiresAt) {
			m.stats.Hits++
			value := e.value
			m.mu.Unlock()

			m.emit(ctx, Event{Kind: EventHit, Key: key})
			m.deliver(ctx, key, onResult, Result[V]{Value: value})
			return
		}
		m.dropLocked(key, e)
		expired = true
	}

	if f, ok := m.inflight[key]; ok {
		f.waiters = append(f.waiters, onResult)
		waiters := len(f.waiters)
		m.stats.Coalesced++
		m.mu.Unlock()

		m.emit(ctx, Event{Kind: EventCoalesced, Key: key, Waiters: waiters})
		return
	}

	f := &flight[V]{waiters: []Continuation[V]{onResult}}
	m.inflight[key] = f
	m.stats.Misses++
	m.mu.Unlock()

	if expired {
		m.emit(ctx, Event{Kind: EventExpired, Key: key})
	}
	m.emit(ctx, Event{Kind: EventMiss, Key: key})

	go m.fill(ctx, key, ttl, producer, f)
}

// Do is the blocking form of Request. If ctx ends before the result arrives,
// Do returns ctx.Err(); the underlying fetch still completes for the other
// waiters and its result is still cached.
func (m *Memo[V]) Do(ctx context.Context, key string, ttl time.Duration, producer Producer[V]) (V, error) {
	ch := make(chan Result[V], 1)
	m.Request(ctx, key, ttl, producer, func(r Result[V]) {
		ch <- r
	})

	select {
	case r := <-ch:
		return r.Value, r.Err
	default:
	}

	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func (m *Memo[V]) fill(ctx context.Context, key string, ttl time.Duration, producer Producer[V], f *flight[V]) {
	pctx := context.WithoutCancel(ctx)
	cancel := context.CancelFunc(func() {})
	if m.producerTimeout > 0 {
		pctx, cancel = context.WithTimeout(pctx, m.producerTimeout)
	}

	start := time.Now()
	value, err := m.call(pctx, producer)
	elapsed := time.Since(start)
	cancel()

	var result Result[V]
	if err != nil {
		result.Err = &ProducerError{Namespace: m.namespace, Key: key, Err: err}
	} else {
		result.Value = value
	}

	ttl = m.policy.EffectiveTTL(ttl)
	store := err == nil && ttl > 0 && !(m.policy.SkipEmpty && isEmpty(value))

	m.mu.Lock()
	delete(m.inflight, key)
	waiters := f.waiters
	f.waiters = nil
	if err != nil {
		m.stats.Failures++
		m.stats.LastError = result.Err
	} else {
		m.stats.LastError = nil
	}
	if store {
		e := &entry[V]{value: value, expiresAt: m.now().Add(ttl)}
		e.timer = time.AfterFunc(ttl, func() { m.expire(key, e) })
		m.entries[key] = e
	}
	m.mu.Unlock()

	ev := Event{Key: key, Waiters: len(waiters), Duration: elapsed, Cached: store}
	if err != nil {
		ev.Kind = EventFailed
		ev.Err = result.Err
	} else {
		ev.Kind = EventFilled
	}
	m.emit(ctx, ev)

	for _, w := range waiters {
		m.deliver(ctx, key, w, result)
	}
}

// call runs the producer, converting a panic into an error so that waiters
// are always notified.
func (m *Memo[V]) call(ctx context.Context, producer Producer[V]) (value V, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("producer panicked: %v", p)
		}
	}()
	return producer(ctx)
}

func (m *Memo[V]) deliver(ctx context.Context, key string, fn Continuation[V], r Result[V]) {
	defer func() {
		if p := recover(); p != nil {
			m.emit(ctx, Event{
				Kind: EventContinuationPanic,
				Key:  key,
				Err:  fmt.Errorf("cache: continuation panicked: %v", p),
			})
		}
	}()
	fn(r)
}

// expire removes e if it is still the entry stored for key. Map membership is
// the single authority; a lazily dropped or replaced entry is left alone.
func (m *Memo[V]) expire(key string, e *entry[V]) {
	m.mu.Lock()
	cur, ok := m.entries[key]
	if !ok || cur != e {
		m.mu.Unlock()
		return
	}
	delete(m.entries, key)
	m.stats.Expired++
	m.mu.Unlock()

	m.emit(context.Background(), Event{Kind: EventExpired, Key: key})
}

// dropLocked removes an entry found expired on read. Caller must hold mu.
func (m *Memo[V]) dropLocked(key string, e *entry[V]) {
	delete(m.entries, key)
	if e.timer != nil {
		e.timer.Stop()
	}
	m.stats.Expired++
}

func (m *Memo[V]) emit(ctx context.Context, ev Event) {
	ev.Namespace = m.namespace
	m.observer.OnEvent(ctx, ev)
}

// Forget removes the cached entry for key. In-flight calls are unaffected.
// It reports whether an entry was removed.
func (m *Memo[V]) Forget(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return false
	}
	delete(m.entries, key)
	e.timer.Stop()
	return true
}

// Purge removes every cached entry and stops their timers. In-flight calls
// are unaffected. It returns the number of entries removed.
func (m *Memo[V]) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.entries)
	for key, e := range m.entries {
		e.timer.Stop()
		delete(m.entries, key)
	}
	return n
}

// Len returns the number of cached entries, including any that have expired
// but not yet been collected.
func (m *Memo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Stats returns a snapshot of the Memo's counters.
func (m *Memo[V]) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	s.Entries = len(m.entries)
	s.Inflight = len(m.inflight)
	return s
}

// Stats contains Memo statistics.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Coalesced uint64
	Failures  uint64
	Expired   uint64

	Entries  int
	Inflight int

	// LastError is the error of the most recently settled producer call,
	// or nil if it succeeded.
	LastError error
}

type lengther interface {
	Len() int
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if l, ok := v.(lengther); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return true
		}
		return l.Len() == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.IsNil() || rv.Len() == 0
	case reflect.String, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
