package health

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jonwraymond/typeahead/cache"
)

// Pinger is a dependency that can be probed for reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to the Pinger interface.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// UpstreamChecker reports unhealthy when its upstream cannot be reached.
type UpstreamChecker struct {
	name    string
	pinger  Pinger
	timeout time.Duration
}

// NewUpstreamChecker returns a checker that pings p under timeout.
// A non-positive timeout leaves the caller's deadline in charge.
func NewUpstreamChecker(name string, p Pinger, timeout time.Duration) *UpstreamChecker {
	return &UpstreamChecker{name: name, pinger: p, timeout: timeout}
}

func (c *UpstreamChecker) Name() string { return c.name }

func (c *UpstreamChecker) Check(ctx context.Context) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := c.pinger.Ping(ctx); err != nil {
		return Unhealthy(fmt.Sprintf("%s unreachable", c.name), fmt.Errorf("%w: %w", ErrCheckFailed, err)).
			WithDuration(time.Since(start))
	}
	return Healthy(fmt.Sprintf("%s reachable", c.name)).WithDuration(time.Since(start))
}

// StatsSource is implemented by *cache.Memo for every value type.
type StatsSource interface {
	Namespace() string
	Stats() cache.Stats
}

// CacheChecker reports degraded when the most recent fill of a memo failed.
// The memo keeps serving whatever it still holds, so a failed fill never
// makes it unhealthy.
type CacheChecker struct {
	src StatsSource
}

// NewCacheChecker returns a checker over src.
func NewCacheChecker(src StatsSource) *CacheChecker {
	return &CacheChecker{src: src}
}

func (c *CacheChecker) Name() string {
	if ns := c.src.Namespace(); ns != "" {
		return "cache." + ns
	}
	return "cache"
}

func (c *CacheChecker) Check(ctx context.Context) Result {
	s := c.src.Stats()
	details := map[string]any{
		"hits":      s.Hits,
		"misses":    s.Misses,
		"coalesced": s.Coalesced,
		"failures":  s.Failures,
		"expired":   s.Expired,
		"entries":   s.Entries,
		"inflight":  s.Inflight,
	}

	if s.LastError != nil {
		r := Degraded("last fill failed: " + s.LastError.Error()).WithDetails(details)
		r.Error = fmt.Errorf("%w: %w", ErrLastFillFailed, s.LastError)
		return r
	}
	return Healthy(fmt.Sprintf("%d entries cached", s.Entries)).WithDetails(details)
}

// RuntimeCheckerConfig sets the thresholds of a RuntimeChecker. A zero
// threshold disables that test.
type RuntimeCheckerConfig struct {
	// MaxGoroutines degrades the check when exceeded.
	MaxGoroutines int

	// MaxHeapBytes degrades the check when the live heap exceeds it.
	MaxHeapBytes uint64
}

// RuntimeChecker reports process-level pressure: goroutine count and heap.
// Leaked continuations show up here first.
type RuntimeChecker struct {
	config RuntimeCheckerConfig
}

// NewRuntimeChecker returns a RuntimeChecker.
func NewRuntimeChecker(config RuntimeCheckerConfig) *RuntimeChecker {
	return &RuntimeChecker{config: config}
}

func (c *RuntimeChecker) Name() string { return "runtime" }

func (c *RuntimeChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context done", err)
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	goroutines := runtime.NumGoroutine()

	details := map[string]any{
		"goroutines":   goroutines,
		"heap_alloc":   ms.HeapAlloc,
		"heap_objects": ms.HeapObjects,
		"num_gc":       ms.NumGC,
	}

	if n := c.config.MaxGoroutines; n > 0 && goroutines > n {
		return Degraded(fmt.Sprintf("%d goroutines, limit %d", goroutines, n)).WithDetails(details)
	}
	if limit := c.config.MaxHeapBytes; limit > 0 && ms.HeapAlloc > limit {
		return Degraded(fmt.Sprintf("heap %d bytes, limit %d", ms.HeapAlloc, limit)).WithDetails(details)
	}
	return Healthy("runtime within limits").WithDetails(details)
}
