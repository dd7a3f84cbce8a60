package middleware

import (
	"strings"

	"burningbros/internal/apperror"
	"burningbros/internal/models"

	"github.com/gofiber/fiber/v2"
)

const userLocalsKey = "user"

// TokenValidator verifies a bearer token and returns the identity it carries.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.AuthUser, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.New(apperror.CodeAuthenticationRequired)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return apperror.New(apperror.CodeAuthenticationRequired)
		}

		user, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// CurrentUser returns the identity stored by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.AuthUser {
	user, _ := c.Locals(userLocalsKey).(*models.AuthUser)
	return user
}
