package middleware

import (
	"burningbros/internal/i18n"

	"github.com/gofiber/fiber/v2"
)

const languageLocalsKey = "language"

// Language negotiates the response language from Accept-Language.
func Language() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(languageLocalsKey, i18n.Negotiate(c.Get(fiber.HeaderAcceptLanguage)))
		return c.Next()
	}
}

// CurrentLanguage returns the negotiated language, en when none was set.
func CurrentLanguage(c *fiber.Ctx) string {
	if lang, ok := c.Locals(languageLocalsKey).(string); ok && lang != "" {
		return lang
	}
	return i18n.LangEN
}
