package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 4096

// Sentinel errors for cache operations.
var (
	ErrInvalidKey  = errors.New("cache: key is invalid")
	ErrKeyTooLong  = errors.New("cache: key exceeds max length")
	ErrNilProducer = errors.New("cache: producer is nil")

	// ErrEncoding matches every *EncodingError.
	ErrEncoding = errors.New("cache: key encoding failed")

	// ErrProducer matches every *ProducerError.
	ErrProducer = errors.New("cache: producer failed")
)

// Producer computes the value for a key. It is called at most once per
// outstanding fetch of that key.
type Producer[V any] func(ctx context.Context) (V, error)

// Continuation receives the result of a Request.
//
// Contract:
// - Continuations must not panic. Failures arrive through Result.Err.
// - Continuations run on the goroutine that settled the request and should
//   return quickly; later waiters for the same key are notified after them.
type Continuation[V any] func(Result[V])

// Result is the outcome delivered to a Continuation. Exactly one of Value or
// Err is meaningful: Err == nil means Value is valid.
type Result[V any] struct {
	Value V
	Err   error
}

// Ok reports whether the result carries a value.
func (r Result[V]) Ok() bool {
	return r.Err == nil
}

// Unwrap returns the result as a value/error pair.
func (r Result[V]) Unwrap() (V, error) {
	return r.Value, r.Err
}

// EncodingError reports a key part that could not be encoded.
type EncodingError struct {
	Index int
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cache: cannot encode key part %d: %v", e.Index, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrEncoding) true for every EncodingError.
func (e *EncodingError) Is(target error) bool { return target == ErrEncoding }

// ProducerError is delivered to every waiter of a failed fetch.
type ProducerError struct {
	Namespace string
	Key       string
	Err       error
}

func (e *ProducerError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("cache: producer for %s key %q failed: %v", e.Namespace, e.Key, e.Err)
	}
	return fmt.Sprintf("cache: producer for key %q failed: %v", e.Key, e.Err)
}

func (e *ProducerError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrProducer) true for every ProducerError.
func (e *ProducerError) Is(target error) bool { return target == ErrProducer }

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	return nil
}
