package secret

import "errors"

var (
	// ErrMissingEnv indicates a ${VAR} reference to an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrProviderNotRegistered indicates a secretref names an unknown provider.
	ErrProviderNotRegistered = errors.New("secret: provider not registered")

	// ErrEmptySecret indicates a strict resolver got an empty value.
	ErrEmptySecret = errors.New("secret: provider returned empty value")

	// ErrSecretNotFound indicates a provider has nothing under a ref.
	ErrSecretNotFound = errors.New("secret: not found")

	// ErrInvalidRef indicates a malformed ref.
	ErrInvalidRef = errors.New("secret: invalid ref")
)
