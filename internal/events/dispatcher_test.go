package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []string
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.UserID)
		return nil
	})
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.UserID)
		return nil
	})
	d.Subscribe(EventUserLoggedIn, func(_ context.Context, _ Event) error {
		seen = append(seen, "wrong-type")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventUserRegistered, UserID: "u1"}))
	assert.Equal(t, []string{"first:u1", "second:u1"}, seen)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventSubscriptionActivated, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventSubscriptionActivated, func(_ context.Context, _ Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSubscriptionActivated}))
	assert.True(t, reached)
}
