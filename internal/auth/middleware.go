package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/ultrastartup/platform/pkg/util"
)

const identityKey = "auth_identity"

// Identity represents the authenticated caller as decoded from the token.
type Identity struct {
	UserID string
}

// AuthMiddleware validates bearer tokens on protected routes.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication. The Authorization header value is handed
// to the verifier untouched; no "Bearer " prefix is stripped. A missing
// header is 401, a malformed or forged token is 400 (not distinguished).
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return apperrors.NewMissingToken()
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return apperrors.NewInvalidToken()
	}

	c.Locals(identityKey, &Identity{UserID: claims.UserID})
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
