package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TraceIDHeader carries the trace ID on both requests and responses.
const TraceIDHeader = "X-Trace-ID"

const traceIDContextKey = "trace_id"

// RequestID assigns every request a trace ID and echoes it back to the
// client. A trace ID supplied by an upstream proxy is kept as-is so traces
// stay continuous across hops.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			traceID := c.Request().Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			c.Set(traceIDContextKey, traceID)
			c.Response().Header().Set(TraceIDHeader, traceID)
			return next(c)
		}
	}
}

// GetTraceID returns the trace ID stored by RequestID, or an empty string
// when the middleware has not run for this request.
func GetTraceID(c echo.Context) string {
	if traceID, ok := c.Get(traceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}
