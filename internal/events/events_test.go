package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_LocalDeliveryWithoutClient(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	received := make(chan Event, 2)
	bus.Subscribe(NOTIFICATION_CHANNEL, func(event Event) error {
		received <- event
		return nil
	})

	userID := uuid.New()
	err := bus.Publish(context.Background(), NOTIFICATION_CHANNEL, Event{
		Type:   NOTIFICATION,
		UserID: &userID,
		Data:   map[string]any{"title": "Level up"},
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, NOTIFICATION, event.Type)
		assert.Equal(t, NOTIFICATION_CHANNEL, event.Channel)
		assert.Equal(t, userID, *event.UserID)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}

	select {
	case <-received:
		t.Fatal("event delivered twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_OtherChannelNotNotified(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	received := make(chan Event, 1)
	bus.Subscribe(NOTIFICATION_CHANNEL, func(event Event) error {
		received <- event
		return nil
	})

	require.NoError(t, bus.PublishCacheInvalidation(context.Background(), "settings", "gamification"))

	select {
	case <-received:
		t.Fatal("handler received event from another channel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	received := make(chan Event, 1)
	bus.Subscribe(CACHE_INVALIDATION_CHANNEL, func(Event) error {
		panic("boom")
	})
	bus.Subscribe(CACHE_INVALIDATION_CHANNEL, func(Event) error {
		return errors.New("refused")
	})
	bus.Subscribe(CACHE_INVALIDATION_CHANNEL, func(event Event) error {
		received <- event
		return nil
	})

	require.NoError(t, bus.PublishCacheInvalidation(context.Background(), "gamification", "settings"))

	select {
	case event := <-received:
		assert.Equal(t, CACHE_INVALIDATION, event.Type)
		assert.Equal(t, "gamification", event.Data["resourceType"])
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}
