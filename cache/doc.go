// Package cache provides a coalescing, TTL-bounded memoization cache.
//
// A Memo holds resolved values and in-flight producer calls per key. When a
// key is requested while a producer call for it is outstanding, the request
// joins that call instead of starting another one, and every waiter receives
// the same result in arrival order. Successful results are kept until their
// TTL elapses; failures are delivered to every waiter and never stored.
//
// Keys are built with Encode (or a Keyer), which produces the same key for
// semantically identical inputs regardless of map iteration order:
//
//	key, err := cache.Encode("GET", "USERS")
//	if err != nil {
//	    return err
//	}
//	users, err := memo.Do(ctx, key, 10*time.Second, fetchUsers)
//
// Each Memo is an isolated namespace. Create one per logical resource.
package cache
