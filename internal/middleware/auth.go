package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/authgate/authgate/internal/auth"
)

// Locals keys under which the authenticated identity is stored for handlers
// downstream of Auth.
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// Auth returns a middleware that resolves the Authorization header into an
// authenticated identity. Every rejection produces the same 401 body
// regardless of cause; the cause is recorded in the server log only.
func Auth(resolver *auth.Resolver, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := resolver.Resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			requestID, _ := c.Locals(requestIDHeader).(string)
			logger.Warn("request rejected",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.String("request_id", requestID),
				slog.String("reason", err.Error()),
			)
			return fiber.NewError(http.StatusUnauthorized, "unauthorized")
		}

		c.Locals(UserIDKey, identity.UserID)
		c.Locals(UserEmailKey, identity.Email)
		return c.Next()
	}
}
