package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/token-gate/internal/api/http/handlers"
	"github.com/spec-kit/token-gate/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Token  *handlers.TokenHandler
	Secure *handlers.SecureHandler
	Guard  *auth.Guard
}

// RegisterRoutes wires HTTP routes. The secure route is only reachable
// through the auth guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/token", cfg.Token.Issue)
	app.Get("/secure-data", cfg.Guard.Handle, cfg.Secure.Get)
}
