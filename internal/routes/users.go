package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/authgate/authgate/internal/auth"
)

// RegisterUserRoutes wires the authenticated user endpoints.
func RegisterUserRoutes(r fiber.Router, h *auth.Handler) {
	r.Get("/users", h.Users)
	r.Get("/users/me", h.Me)
}
