package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ultrastartup/platform/internal/config"
	"github.com/ultrastartup/platform/internal/events"
	"github.com/ultrastartup/platform/internal/persistence"
	"github.com/ultrastartup/platform/internal/repository"
	apperrors "github.com/ultrastartup/platform/pkg/util"
)

// CheckoutClient creates hosted checkout sessions with the payment provider.
type CheckoutClient interface {
	CreateSubscriptionSession(ctx context.Context, priceID, successURL, cancelURL string) (sessionID, url string, err error)
}

// SessionStore parks pending checkout sessions until confirmation.
type SessionStore interface {
	Park(ctx context.Context, sessionID, userID string) error
	Take(ctx context.Context, sessionID string) (string, error)
}

// BillingService creates subscription checkout sessions and activates
// subscriptions once the buyer returns from the provider.
type BillingService struct {
	checkout   CheckoutClient
	sessions   SessionStore
	users      repository.UserRepository
	dispatcher events.Dispatcher
	cfg        config.StripeConfig
}

// NewBillingService builds the service.
func NewBillingService(checkout CheckoutClient, sessions SessionStore, users repository.UserRepository, dispatcher events.Dispatcher, cfg config.StripeConfig) *BillingService {
	return &BillingService{
		checkout:   checkout,
		sessions:   sessions,
		users:      users,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// CreateCheckoutSession opens a card-based subscription checkout for the
// configured price. When the caller presented a valid token, the session
// is parked against that user so confirmation can activate the
// subscription; anonymous checkouts still get a session URL.
func (b *BillingService) CreateCheckoutSession(ctx context.Context, userID string) (string, error) {
	sessionID, url, err := b.checkout.CreateSubscriptionSession(ctx, b.cfg.PriceID, b.cfg.SuccessURL, b.cfg.CancelURL)
	if err != nil {
		return "", err
	}

	if userID != "" {
		if err := b.sessions.Park(ctx, sessionID, userID); err != nil {
			return "", err
		}
	}
	return url, nil
}

// ConfirmCheckout consumes a parked session and flips the user's
// subscription flag.
func (b *BillingService) ConfirmCheckout(ctx context.Context, sessionID string) error {
	userID, err := b.sessions.Take(ctx, sessionID)
	if err != nil {
		if err == persistence.ErrSessionNotFound {
			return apperrors.NewNotFound("checkout session", nil)
		}
		return err
	}

	if err := b.users.SetSubscriptionActive(ctx, userID, true); err != nil {
		return apperrors.NewStoreError(err)
	}

	if b.dispatcher != nil {
		_ = b.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSubscriptionActivated,
			UserID:    userID,
			Timestamp: time.Now(),
			Payload:   events.SubscriptionActivatedPayload{CheckoutSessionID: sessionID},
		})
	}
	return nil
}
