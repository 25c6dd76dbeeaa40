package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/typeahead/cache"
)

func TestUpstreamChecker(t *testing.T) {
	errDown := errors.New("dial tcp: connection refused")

	up := NewUpstreamChecker("users", PingFunc(func(ctx context.Context) error { return nil }), time.Second)
	if r := up.Check(context.Background()); r.Status != StatusHealthy {
		t.Errorf("reachable upstream: %+v", r)
	}

	down := NewUpstreamChecker("users", PingFunc(func(ctx context.Context) error { return errDown }), 0)
	r := down.Check(context.Background())
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, errDown) {
		t.Errorf("unreachable upstream: %+v", r)
	}
	if down.Name() != "users" {
		t.Errorf("Name() = %q", down.Name())
	}
}

func TestUpstreamChecker_Timeout(t *testing.T) {
	c := NewUpstreamChecker("users", PingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}), 10*time.Millisecond)

	r := c.Check(context.Background())
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, context.DeadlineExceeded) {
		t.Errorf("Check() = %+v, want deadline exceeded", r)
	}
}

func TestCacheChecker(t *testing.T) {
	memo := cache.New[[]string](cache.WithNamespace("users"))
	c := NewCacheChecker(memo)

	if c.Name() != "cache.users" {
		t.Errorf("Name() = %q", c.Name())
	}

	ctx := context.Background()
	_, _ = memo.Do(ctx, "GET||USERS", time.Minute, func(ctx context.Context) ([]string, error) {
		return []string{"Bret"}, nil
	})

	r := c.Check(ctx)
	if r.Status != StatusHealthy {
		t.Fatalf("after a good fill: %+v", r)
	}
	if r.Details["entries"] != 1 {
		t.Errorf("entries = %v, want 1", r.Details["entries"])
	}

	errAPI := errors.New("Network Error")
	_, _ = memo.Do(ctx, "GET||POSTS", time.Minute, func(ctx context.Context) ([]string, error) {
		return nil, errAPI
	})

	r = c.Check(ctx)
	if r.Status != StatusDegraded {
		t.Fatalf("after a failed fill: %+v", r)
	}
	if !errors.Is(r.Error, ErrLastFillFailed) || !errors.Is(r.Error, errAPI) {
		t.Errorf("Error = %v", r.Error)
	}
}

func TestCacheChecker_NoNamespace(t *testing.T) {
	c := NewCacheChecker(cache.New[int]())
	if c.Name() != "cache" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestRuntimeChecker(t *testing.T) {
	r := NewRuntimeChecker(RuntimeCheckerConfig{}).Check(context.Background())
	if r.Status != StatusHealthy {
		t.Errorf("no thresholds: %+v", r)
	}
	if _, ok := r.Details["goroutines"]; !ok {
		t.Error("missing goroutines detail")
	}

	r = NewRuntimeChecker(RuntimeCheckerConfig{MaxGoroutines: 1}).Check(context.Background())
	if r.Status != StatusDegraded {
		t.Errorf("MaxGoroutines 1: %+v", r)
	}

	r = NewRuntimeChecker(RuntimeCheckerConfig{MaxHeapBytes: 1}).Check(context.Background())
	if r.Status != StatusDegraded {
		t.Errorf("MaxHeapBytes 1: %+v", r)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if r := NewRuntimeChecker(RuntimeCheckerConfig{}).Check(ctx); r.Status != StatusUnhealthy {
		t.Errorf("cancelled ctx: %+v", r)
	}
}
