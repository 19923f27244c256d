package dto

import "github.com/ultrastartup/platform/internal/domain"

// RegisterRequest payload for new accounts. Role and SubscriptionActive
// are optional and merged verbatim into the created record.
type RegisterRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	Role               string `json:"role"`
	SubscriptionActive *bool  `json:"subscriptionActive"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token alongside the full record.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// CheckoutResponse returns the hosted checkout URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}
