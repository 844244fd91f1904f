package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

var startedAt = time.Now()

// RegisterHealthRoutes adds liveness/readiness style endpoints.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		backend := "memory"
		storeStatus := "ok"

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if d.DB != nil {
			backend = "postgres"
			if err := d.DB.Ping(ctx); err != nil {
				storeStatus = err.Error()
			}
		}
		status := http.StatusOK
		if storeStatus != "ok" {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    fiber.Map{"store": storeStatus, "backend": backend},
			"uptime":    time.Since(startedAt).Round(time.Second).String(),
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
