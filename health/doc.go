// Package health reports whether the typeahead service can answer.
//
// Three checkers cover the service: UpstreamChecker pings the users API,
// CacheChecker reads a memo's Stats and degrades when the last fill failed,
// and RuntimeChecker watches goroutines and heap. An Aggregator runs them
// concurrently on a bounded pool and folds the results into one Status.
//
//	agg := health.NewAggregator(health.AggregatorConfig{
//	    Timeout:  5 * time.Second,
//	    Parallel: true,
//	    Logger:   obs.Logger(),
//	})
//	agg.Register("users", health.NewUpstreamChecker("users", client, 2*time.Second))
//	agg.Register("cache", health.NewCacheChecker(memo))
//
// LivenessHandler, ReadinessHandler and DetailedHandler expose the
// aggregator over HTTP. Readiness fails only when a check is unhealthy;
// a degraded cache keeps serving.
package health
