package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ultrastartup/platform/internal/api/http/handlers"
	"github.com/ultrastartup/platform/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Checkout       *handlers.CheckoutHandler
	Pages          *handlers.PagesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/", cfg.Pages.Landing)
	app.Get("/login", cfg.Pages.LoginPage)
	app.Get("/dashboard", cfg.AuthMiddleware.Handle, cfg.Pages.Dashboard)

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)
	api.Post("/checkout", cfg.Checkout.CreateSession)
	api.Get("/checkout/confirm", cfg.Checkout.Confirm)
}
