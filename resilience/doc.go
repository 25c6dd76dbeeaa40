// Package resilience provides resilience patterns for upstream calls.
//
// The typeahead cache coalesces concurrent requests for one key, so a single
// producer call stands in for many callers. The patterns here keep that one
// call well behaved when the upstream is slow or failing.
//
// # Patterns
//
//   - Circuit Breaker: stops calling a failing upstream after a threshold
//     of consecutive failures and probes again after a reset timeout.
//
//   - Retry: retries transient failures with exponential, linear or
//     constant backoff.
//
//   - Rate Limiter: a token bucket on golang.org/x/time/rate.
//
//   - Bulkhead: bounds concurrent calls across keys on a weighted
//     semaphore from golang.org/x/sync.
//
//   - Timeout: bounds a single attempt.
//
// # Usage
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        MaxFailures:  5,
//	        ResetTimeout: 30 * time.Second,
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts: 3,
//	        RetryIf:     users.IsRetryable,
//	    })),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	dir, err := resilience.Call(ctx, executor, client.ListUsers)
package resilience
