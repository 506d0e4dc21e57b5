// Package middleware holds the HTTP middleware shared across API versions.
package middleware

import (
	"time"

	"github.com/google/uuid"

	log "github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/logger"

	fiber "github.com/gofiber/fiber/v2"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// Logger returns a middleware that tags each request with a correlation id
// and logs it on completion
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)

		// Continue chain
		err := c.Next()

		// After request
		latency := time.Since(start)

		log.InfoWithFields("Request", map[string]interface{}{
			"request_id": requestID,
			"status":     c.Response().StatusCode(),
			"latency":    latency.String(),
			"ip":         c.IP(),
			"method":     c.Method(),
			"path":       c.Path(),
		})

		return err
	}
}
