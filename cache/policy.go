package cache

import "time"

// Policy configures caching behavior.
type Policy struct {
	// DefaultTTL is the TTL to use when a request passes none.
	// If zero, caching is disabled by default; requests are still coalesced.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Request TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration

	// SkipEmpty prevents empty results (nil, zero-length slices, maps and
	// strings, or values whose Len method returns 0) from being stored.
	// Empty results are cached by default so that legitimately empty
	// lookups do not stampede the producer.
	SkipEmpty bool
}

// DefaultPolicy returns the default caching policy.
// DefaultTTL: 10 seconds, MaxTTL: 1 hour, SkipEmpty: false
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 10 * time.Second,
		MaxTTL:     1 * time.Hour,
	}
}

// UnboundedPolicy returns the policy a Memo uses when none is given: a
// request without a ttl is stored for DefaultPolicy's 10 seconds, and an
// explicit ttl is used as given, however long.
func UnboundedPolicy() Policy {
	return Policy{DefaultTTL: DefaultPolicy().DefaultTTL}
}

// NoCachePolicy returns a policy that stores nothing unless a request passes
// an explicit TTL. A Memo using it still coalesces concurrent requests.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
// A zero result means the value is not stored.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	// Use default if no override (or negative override)
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}

	if ttl < 0 {
		ttl = 0
	}

	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}
