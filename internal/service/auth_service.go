package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ultrastartup/platform/internal/auth"
	"github.com/ultrastartup/platform/internal/config"
	"github.com/ultrastartup/platform/internal/domain"
	"github.com/ultrastartup/platform/internal/events"
	"github.com/ultrastartup/platform/internal/repository"
	apperrors "github.com/ultrastartup/platform/pkg/util"
)

// RegisterInput carries the registration payload. Role and
// SubscriptionActive are optional; defaults apply at construction.
type RegisterInput struct {
	Name               string
	Email              string
	Password           string
	Role               string
	SubscriptionActive *bool
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		users:      users,
		dispatcher: dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account. The plaintext password is replaced by
// its hash; every other input field is stored verbatim. No uniqueness
// check is performed: registering the same email twice creates a second,
// independent record.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(input.Name, input.Email, hash, input.Role, input.SubscriptionActive)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewStoreError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  user.Role,
	})
	return user, nil
}

// Login authenticates by email and password and issues a bearer token
// carrying the record's identifier.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", apperrors.NewUserNotFound()
		}
		return nil, "", apperrors.NewStoreError(err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", apperrors.NewInvalidPassword()
	}

	token, err := s.tokenMgr.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{Email: user.Email})
	return user, token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
