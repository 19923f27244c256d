package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indicates the checkout session was never parked or
// has already been consumed or expired.
var ErrSessionNotFound = errors.New("checkout session not found")

const checkoutKeyPrefix = "checkout:pending:"

// CheckoutSessionStore parks pending checkout sessions in Redis until the
// payment provider redirects the buyer back for confirmation.
type CheckoutSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutSessionStore builds a store over the shared Redis client.
func NewCheckoutSessionStore(r *Redis, ttl time.Duration) *CheckoutSessionStore {
	return &CheckoutSessionStore{client: r.Client, ttl: ttl}
}

// Park records sessionID -> userID for the configured TTL.
func (s *CheckoutSessionStore) Park(ctx context.Context, sessionID, userID string) error {
	return s.client.Set(ctx, checkoutKeyPrefix+sessionID, userID, s.ttl).Err()
}

// Take consumes a parked session and returns the associated user id.
// A session can be taken at most once.
func (s *CheckoutSessionStore) Take(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.GetDel(ctx, checkoutKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}
