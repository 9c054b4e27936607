package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"koinsave/internal/errors"

	"github.com/labstack/echo/v4"
)

// PanicRecovery turns a handler panic into a generic internal error response
// instead of tearing down the connection. The stack is logged under the
// request's trace ID so the crash can be matched to a client report.
func PanicRecovery() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				traceID := GetTraceID(c)
				slog.Error("panic recovered",
					"trace_id", traceID,
					"panic", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"stack", string(debug.Stack()),
				)

				response := errors.NewErrorResponse(errors.SystemInternalError, traceID)
				if err := c.JSON(http.StatusInternalServerError, response); err != nil {
					slog.Error("failed to write panic response",
						"trace_id", traceID,
						"error", err.Error(),
					)
				}
			}()

			return next(c)
		}
	}
}
