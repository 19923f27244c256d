package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ultrastartup/platform/internal/api/dto"
	"github.com/ultrastartup/platform/internal/auth"
	"github.com/ultrastartup/platform/internal/service"
)

// CheckoutHandler exposes the subscription checkout endpoints.
type CheckoutHandler struct {
	billing *service.BillingService
	tokens  *auth.TokenManager
}

// NewCheckoutHandler constructs handler.
func NewCheckoutHandler(billing *service.BillingService, tokens *auth.TokenManager) *CheckoutHandler {
	return &CheckoutHandler{billing: billing, tokens: tokens}
}

// CreateSession handles POST /api/checkout. The route is open; when the
// caller happens to present a valid token the session is tied to that
// user so confirmation can activate the subscription.
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	userID := ""
	if raw := c.Get("Authorization"); raw != "" {
		if claims, err := h.tokens.Verify(raw); err == nil {
			userID = claims.UserID
		}
	}

	url, err := h.billing.CreateCheckoutSession(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(dto.CheckoutResponse{URL: url})
}

// Confirm handles GET /api/checkout/confirm?session_id=. It consumes the
// parked session, activates the subscription and sends the buyer on to
// the dashboard.
func (h *CheckoutHandler) Confirm(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return fiber.NewError(http.StatusBadRequest, "session_id required")
	}

	if err := h.billing.ConfirmCheckout(c.Context(), sessionID); err != nil {
		return err
	}

	return c.Redirect("/dashboard", http.StatusSeeOther)
}
