package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jonwraymond/typeahead/observe"
	"github.com/jonwraymond/typeahead/resilience"
	"github.com/jonwraymond/typeahead/users"
)

var (
	// ErrNilSuggester is returned by New without a suggestion source.
	ErrNilSuggester = errors.New("server: suggester is required")

	// ErrInvalidLimit is returned for a limit that is not a non-negative
	// integer.
	ErrInvalidLimit = errors.New("server: limit must be a non-negative integer")
)

// StatusClientClosedRequest is recorded when the client went away before its
// response was ready.
const StatusClientClosedRequest = 499

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Status    string `json:"status,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// errorHandler renders handler errors as ErrorResponse. Upstream failures
// surface as 502 with the message meant for end users, a shedding policy
// as 503 and an exhausted deadline as 504. A request canceled by its client
// is recorded as 499 and logged at debug level only.
func errorHandler(logger observe.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		ctx := c.Request().Context()
		body := ErrorResponse{RequestID: observe.RequestID(ctx)}
		code := http.StatusInternalServerError

		var he *echo.HTTPError
		var apiErr *users.APIError
		switch {
		case errors.As(err, &he):
			code = he.Code
			body.Error = http.StatusText(code)
			if msg, ok := he.Message.(string); ok {
				body.Error = msg
			}
		case errors.As(err, &apiErr):
			code = http.StatusBadGateway
			body.Error = apiErr.UserMessage
			body.Status = apiErr.StatusText
		case errors.Is(err, resilience.ErrCircuitOpen),
			errors.Is(err, resilience.ErrBulkheadFull),
			errors.Is(err, resilience.ErrRateLimitExceeded):
			code = http.StatusServiceUnavailable
			body.Error = users.UserMessage(err)
		case errors.Is(err, context.Canceled):
			code = StatusClientClosedRequest
			body.Error = "client closed request"
		case errors.Is(err, resilience.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
			code = http.StatusGatewayTimeout
			body.Error = users.UserMessage(err)
		default:
			code = http.StatusBadGateway
			body.Error = users.UserMessage(err)
		}

		switch {
		case code == StatusClientClosedRequest:
			logger.Debug(ctx, "request canceled",
				observe.Field{Key: "path", Value: c.Path()},
				observe.Field{Key: "error", Value: err},
			)
		case code >= http.StatusInternalServerError:
			logger.Error(ctx, "request failed",
				observe.Field{Key: "path", Value: c.Path()},
				observe.Field{Key: "status", Value: code},
				observe.Field{Key: "error", Value: err},
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Warn(ctx, "write error response", observe.Field{Key: "error", Value: err})
		}
	}
}
