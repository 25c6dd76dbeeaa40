// Package server exposes typeahead suggestions over HTTP with echo.
//
// Routes:
//
//	GET /api/suggest?q=<text>&limit=<n>   suggestions for q
//	GET /api/cache/stats                  memo counters
//	GET /healthz                          liveness
//	GET /readyz                           readiness from the health aggregator
//	GET /health, /health/:name            detailed health
//	GET /metrics                          Prometheus scrape, when configured
//
// Every request carries an X-Request-ID (generated when absent) that is
// stored in the request context for log correlation.
package server
