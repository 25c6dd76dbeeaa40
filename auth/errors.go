package auth

import "errors"

var (
	// ErrUnknownMethod indicates an unsupported credential method.
	ErrUnknownMethod = errors.New("auth: unknown method")

	// ErrMissingCredentials indicates a method is missing a required value.
	ErrMissingCredentials = errors.New("auth: missing credentials")

	// ErrSigningFailed indicates a self-signed token could not be produced.
	ErrSigningFailed = errors.New("auth: token signing failed")
)
