package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dirkit/user-directory/internal/api/http/handlers"
	"github.com/dirkit/user-directory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Only the self-update route is guarded.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	users := app.Group("/api/v1/user")
	users.Post("/signup", cfg.Users.Signup)
	users.Post("/signin", cfg.Users.Signin)
	users.Get("/bulk", cfg.Users.Bulk)
	users.Put("/", cfg.AuthMiddleware.Handle, auth.WithIdentity(cfg.Users.Update))
}
