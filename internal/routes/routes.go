package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/middleware"
	"github.com/authgate/authgate/internal/notification"
	"github.com/authgate/authgate/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Logger *slog.Logger
}

// ErrorHandler renders every handler error as an {"error": message} JSON
// body. Errors that are not fiber errors become a 500 with a generic
// message; their detail goes to the server log only.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}
		logger.Error("request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() && d.DB == nil {
		return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Stores, services and handlers
	var userRepo user.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
	}

	hasher, err := auth.NewBcryptHasher(d.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(d.Cfg.JWTSecret, d.Cfg.JWTIssuer, d.Cfg.JWTAudience, d.Cfg.TokenTTL)
	if err != nil {
		return err
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	authSvc := auth.NewService(userRepo, hasher, tokens, notifier)
	authHandler := auth.NewHandler(authSvc)
	resolver := auth.NewResolver(tokens, userRepo)

	// API routes
	api := app.Group("/api/v1")

	// Public routes
	RegisterAuthRoutes(api, authHandler)

	// Protected routes
	authmw := middleware.Auth(resolver, d.Logger)
	protected := api.Group("", authmw)
	RegisterUserRoutes(protected, authHandler)
	protected.Get("/dashboard", func(c *fiber.Ctx) error {
		uid, _ := c.Locals(middleware.UserIDKey).(string)
		email, _ := c.Locals(middleware.UserEmailKey).(string)
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"message":    fmt.Sprintf("welcome back, %s", email),
			"user_id":    uid,
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	return nil
}
