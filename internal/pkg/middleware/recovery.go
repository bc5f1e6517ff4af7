package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/internal/pkg/logger"
)

// PanicRecovery recovers from handler panics, logs the stack trace and
// returns a 500 without killing the worker goroutine.
func PanicRecovery(log *logger.ZapLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					handlePanic(c, r, log)
				}
			}()
			return next(c)
		}
	}
}

func handlePanic(c echo.Context, r interface{}, log *logger.ZapLogger) {
	req := c.Request()
	log.Error("panic recovered during request processing",
		logger.Any("panic_value", r),
		logger.String("panic_type", fmt.Sprintf("%T", r)),
		logger.String("stack_trace", string(debug.Stack())),
		logger.String("method", req.Method),
		logger.String("path", req.URL.Path),
		logger.String("client_ip", c.RealIP()),
		logger.String("request_id", RequestID(c)))

	if !c.Response().Committed {
		if err := c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":      "Internal Server Error",
			"request_id": RequestID(c),
		}); err != nil {
			c.String(http.StatusInternalServerError, "Internal Server Error")
		}
	}
}
