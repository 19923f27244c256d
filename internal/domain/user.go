package domain

import "time"

// DefaultRole is assigned when registration does not specify one.
const DefaultRole = "user"

// User is the sole persisted entity: a registered account with an
// optional active subscription. PasswordHash always holds a bcrypt
// output past the registration boundary, never the plaintext.
type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"password"`
	Role               string    `json:"role"`
	SubscriptionActive bool      `json:"subscriptionActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NewUser builds a user applying the construction-time defaulting rule:
// empty role becomes DefaultRole, nil subscription flag becomes false.
func NewUser(name, email, passwordHash, role string, subscriptionActive *bool) *User {
	if role == "" {
		role = DefaultRole
	}
	active := false
	if subscriptionActive != nil {
		active = *subscriptionActive
	}
	return &User{
		Name:               name,
		Email:              email,
		PasswordHash:       passwordHash,
		Role:               role,
		SubscriptionActive: active,
	}
}
