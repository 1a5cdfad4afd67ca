package httpx

import (
	"time"

	"agency-cms/internal/shared/logger"
	"agency-cms/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestContext moves the id assigned by the requestid middleware onto the user context
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}
		return c.Next()
	}
}

// RequestLogger logs one line per request; 5xx responses are logged as errors
func RequestLogger(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		entry := log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   status,
			"duration": time.Since(start).String(),
			"ip":       c.IP(),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Errorf("❌ %s %s -> %d", c.Method(), c.Path(), status)
		case status >= fiber.StatusBadRequest:
			entry.Warnf("%s %s -> %d", c.Method(), c.Path(), status)
		default:
			entry.Debugf("%s %s -> %d", c.Method(), c.Path(), status)
		}
		return err
	}
}
