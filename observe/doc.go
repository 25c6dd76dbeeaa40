// Package observe provides observability primitives for the typeahead cache
// and its upstream calls.
//
// It is a pure instrumentation library: structured logging on zerolog,
// OpenTelemetry metrics and traces, and a cache.Observer that turns cache
// events into both. Consumers wire it into the cache, the users client and
// the HTTP server.
package observe
