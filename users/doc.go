// Package users is the client for the users listing the typeahead suggests
// from.
//
// Client.List sends GET {base}/users and classifies the response the way
// the API reports failures: a data.error or errorData field in the body, a
// status field other than "success", or a non-2xx code. Failures become an
// *APIError whose StatusText is one of the Status constants and whose
// UserMessage can be shown to end users. A successful body must be a JSON
// array of objects with a name; anything else is a *ParseError.
//
// IsRetryable marks network failures and 5xx responses for the resilience
// retry policy.
package users
