package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jonwraymond/typeahead/observe"
)

// HeaderRequestID carries the correlation ID in both directions.
const HeaderRequestID = "X-Request-ID"

// requestID adopts the caller's X-Request-ID or mints one, echoes it in
// the response and stores it in the request context.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, id)
			c.SetRequest(req.WithContext(observe.WithRequestID(req.Context(), id)))
			return next(c)
		}
	}
}

// accessLog logs one line per request after the response is written.
// Probe routes log at debug.
func accessLog(logger observe.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			fields := []observe.Field{
				{Key: "method", Value: req.Method},
				{Key: "path", Value: req.URL.Path},
				{Key: "route", Value: c.Path()},
				{Key: "status", Value: c.Response().Status},
				{Key: "bytes", Value: c.Response().Size},
				{Key: "duration_ms", Value: time.Since(start).Milliseconds()},
			}
			switch c.Path() {
			case "/healthz", "/readyz", "/metrics":
				logger.Debug(req.Context(), "request", fields...)
			default:
				logger.Info(req.Context(), "request", fields...)
			}
			return nil
		}
	}
}
