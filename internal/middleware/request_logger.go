package middleware

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const maxLoggedBody = 500

// RequestLogger logs every request once the response is known. Errors from
// the chain are handed to the app error handler first so the logged status is
// the one the client receives.
func RequestLogger(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if logger.IsLevelEnabled(logrus.DebugLevel) && len(c.Body()) > 0 {
			logger.WithFields(logrus.Fields{
				"method":       c.Method(),
				"path":         c.Path(),
				"request_id":   requestID(c),
				"request_body": maskBody(c.Body()),
			}).Debug("Request received")
		}

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		statusCode := c.Response().StatusCode()
		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Method(),
			"path":        c.Path(),
			"ip":          c.IP(),
			"request_id":  requestID(c),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if user := CurrentUser(c); user != nil {
			entry = entry.WithField("user_id", user.ID)
		}

		switch {
		case statusCode >= fiber.StatusInternalServerError:
			if chainErr != nil {
				entry = entry.WithError(chainErr)
			}
			entry.Error("Server error response")
		case statusCode >= fiber.StatusBadRequest:
			entry.Warn("Client error response")
		default:
			entry.Info("Request completed")
		}
		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}

// maskBody hides password values in JSON bodies and truncates the result.
func maskBody(body []byte) string {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"password", "Password"} {
			if _, ok := fields[key]; ok {
				fields[key] = "***"
			}
		}
		if masked, err := json.Marshal(fields); err == nil {
			body = masked
		}
	} else {
		body = []byte("(non-json body omitted)")
	}
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "...(truncated)"
	}
	return string(body)
}
