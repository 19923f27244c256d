package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ultrastartup/platform/internal/auth"
)

// PagesHandler serves the rendered HTML views.
type PagesHandler struct {
	appName string
}

// NewPagesHandler constructs handler.
func NewPagesHandler(appName string) *PagesHandler {
	return &PagesHandler{appName: appName}
}

// Landing handles GET /.
func (h *PagesHandler) Landing(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{"AppName": h.appName})
}

// LoginPage handles GET /login.
func (h *PagesHandler) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{})
}

// Dashboard handles GET /dashboard. The auth middleware runs first, so an
// identity is always present here.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	data := fiber.Map{}
	if identity, ok := auth.IdentityFromContext(c); ok {
		data["UserID"] = identity.UserID
	}
	return c.Render("dashboard", data)
}
