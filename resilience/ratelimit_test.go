package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	cfg := NewRateLimiter(RateLimiterConfig{}).Config()
	if cfg.Rate != 10 || cfg.Burst != 5 || cfg.MaxWait != time.Second {
		t.Errorf("config = %+v", cfg)
	}
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("burst tokens should be available")
	}
	if rl.Allow() {
		t.Error("third call should be limited")
	}

	err := rl.Execute(context.Background(), succeed)
	if !errors.Is(err, ErrRateLimitExceeded) || !IsRateLimited(err) {
		t.Errorf("Execute() = %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_WaitOnLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 100, Burst: 1, WaitOnLimit: true, MaxWait: time.Second})
	ctx := context.Background()

	calls := 0
	op := func(ctx context.Context) error {
		calls++
		return nil
	}
	if err := rl.Execute(ctx, op); err != nil {
		t.Fatal(err)
	}
	if err := rl.Execute(ctx, op); err != nil {
		t.Fatalf("waiting Execute() = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRateLimiter_WaitExceedsMaxWait(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.01, Burst: 1, WaitOnLimit: true, MaxWait: 10 * time.Millisecond})
	ctx := context.Background()

	_ = rl.Execute(ctx, succeed)
	if err := rl.Execute(ctx, succeed); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("err = %v, want ErrRateLimitExceeded", err)
	}
}

func TestRateLimiter_WaitHonorsCallerContext(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.01, Burst: 1, MaxWait: time.Minute})
	rl.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
}

func TestRateLimiter_Tokens(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 3})
	rl.Allow()
	if got := rl.Tokens(); got < 1.9 || got > 2.1 {
		t.Errorf("Tokens() = %v, want about 2", got)
	}
}
