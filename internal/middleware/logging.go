package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
)

// RequestLogger logs one line per request with method, route, status and
// latency. Server errors are logged at error level.
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo's error handler write the response so the
				// status below is the one the client sees
				c.Error(err)
			}
			status := c.Response().Status
			kv := []interface{}{
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"latency", time.Since(start).String(),
			}
			if uid, ok := UserID(c); ok {
				kv = append(kv, "user_id", uid)
			}
			if status >= 500 {
				if err != nil {
					kv = append(kv, "error", err)
				}
				log.Error("request", kv...)
			} else {
				log.Info("request", kv...)
			}
			return nil
		}
	}
}
