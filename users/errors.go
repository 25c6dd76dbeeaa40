package users

import (
	"context"
	"errors"
	"fmt"
)

// Status texts carried by APIError.
const (
	StatusSuccess        = "success"
	StatusFailed         = "failed"
	StatusNetworkError   = "Network Error"
	StatusUnauthorised   = "UNAUTHORISED"
	StatusFailureHandler = "error_from_api_failure_handler"
	StatusUnexpected     = "unexpected_error"
)

// DefaultUserMessage is shown when a response carries no message of its own.
const DefaultUserMessage = "Something went wrong! Please try again later."

// Sentinels matched by APIError through errors.Is, one per status text.
var (
	ErrNetwork      = errors.New("users: network error")
	ErrUnauthorised = errors.New("users: unauthorised")
	ErrAPIFailure   = errors.New("users: api failure")
	ErrUnexpected   = errors.New("users: unexpected response")
	ErrFailed       = errors.New("users: request failed")

	// ErrParse is matched by every ParseError.
	ErrParse = errors.New("users: parse error")
)

// APIError is a classified failure of a users API call.
type APIError struct {
	StatusText  string
	UserMessage string

	// StatusCode is the HTTP status, or 0 when no response arrived.
	StatusCode int

	// Err is the transport error for StatusNetworkError.
	Err error
}

func (e *APIError) Error() string {
	msg := "users: " + e.StatusText
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.UserMessage != "" {
		msg += ": " + e.UserMessage
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches the sentinel for e's status text.
func (e *APIError) Is(target error) bool {
	switch e.StatusText {
	case StatusNetworkError:
		return target == ErrNetwork
	case StatusUnauthorised:
		return target == ErrUnauthorised
	case StatusFailureHandler:
		return target == ErrAPIFailure
	case StatusUnexpected:
		return target == ErrUnexpected
	case StatusFailed:
		return target == ErrFailed
	}
	return false
}

// ParseError reports a successful response whose body is not a user list.
type ParseError struct {
	UserMessage      string
	DeveloperMessage string

	// ErrorData describes what did not match.
	ErrorData string
}

func newParseError(data string) *ParseError {
	return &ParseError{
		UserMessage:      "UnExpected error occurred !",
		DeveloperMessage: "Parsing error !",
		ErrorData:        data,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("users: %s %s", e.DeveloperMessage, e.ErrorData)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// UserMessage returns the message fit to show an end user for err.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.UserMessage != "" {
		return apiErr.UserMessage
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.UserMessage
	}
	return DefaultUserMessage
}

// IsRetryable reports whether err is worth retrying: network failures
// and 5xx responses. A canceled caller is never retried.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusText == StatusNetworkError {
		return !errors.Is(apiErr.Err, context.Canceled)
	}
	return apiErr.StatusCode >= 500
}
