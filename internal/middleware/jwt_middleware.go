package middleware

import (
	"strings"

	"pethaul/internal/models"
	"pethaul/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const principalKey = "principal"

// AuthRequired is a Fiber middleware to check for a valid JWT token and
// store the caller principal in the request locals.
func AuthRequired(authService *services.AuthService, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		principal, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.WithError(err).WithField("path", c.Path()).Info("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// AdminOnly rejects callers whose principal is not an administrator. It must
// run after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok || !principal.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Administrator access required",
			})
		}
		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthRequired.
func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	principal, ok := c.Locals(principalKey).(models.Principal)
	return principal, ok
}
