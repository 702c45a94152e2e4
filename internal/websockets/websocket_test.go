package websockets

import (
	"context"
	"errors"
	"testing"
	"time"

	"restocoach/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *events.EventBus) {
	t.Helper()
	bus := events.New(nil)
	t.Cleanup(func() { _ = bus.Close() })
	return New(bus, nil, nil), bus
}

func addClient(m *Manager, userID *uuid.UUID) *Client {
	client := &Client{
		ID:      uuid.New().String(),
		Manager: m,
		Status:  STATUS_UNAUTHENTICATED,
		send:    make(chan Message, SEND_CHANNEL_SIZE),
	}
	m.registerClient(client)
	if userID != nil {
		m.authenticate(client, *userID)
	}
	return client
}

func TestSendMessageToUser_OnlyAuthenticatedConnectionsOfUser(t *testing.T) {
	m, _ := newTestManager(t)
	userID := uuid.New()
	other := uuid.New()

	phone := addClient(m, &userID)
	laptop := addClient(m, &userID)
	stranger := addClient(m, &other)
	pending := addClient(m, nil)

	sent := m.SendMessageToUser(userID, Message{ID: "n1", Type: MESSAGE_TYPE_NOTIFICATION})
	assert.Equal(t, 2, sent)
	assert.Len(t, phone.send, 1)
	assert.Len(t, laptop.send, 1)
	assert.Empty(t, stranger.send)
	assert.Empty(t, pending.send)
	assert.Equal(t, 2, m.ConnectedUsers())
}

func TestUnregisterClient_ClosesOnce(t *testing.T) {
	m, _ := newTestManager(t)
	userID := uuid.New()
	client := addClient(m, &userID)

	m.unregisterClient(client)
	m.unregisterClient(client)

	_, open := <-client.send
	assert.False(t, open)
	assert.Equal(t, 0, m.SendMessageToUser(userID, Message{ID: "late"}))
}

func TestNotificationEventReachesUserSocket(t *testing.T) {
	m, bus := newTestManager(t)
	userID := uuid.New()
	client := addClient(m, &userID)

	require.NoError(t, bus.Publish(context.Background(), events.NOTIFICATION_CHANNEL, events.Event{
		Type:   events.NOTIFICATION,
		UserID: &userID,
		Data:   map[string]any{"title": "Streak secured"},
	}))

	select {
	case message := <-client.send:
		assert.Equal(t, MESSAGE_TYPE_NOTIFICATION, message.Type)
		assert.Equal(t, "Streak secured", message.Data["title"])
	case <-time.After(time.Second):
		t.Fatal("notification was not delivered")
	}
}

func TestDeliver_DropsWhenBufferFull(t *testing.T) {
	m, _ := newTestManager(t)
	userID := uuid.New()
	client := addClient(m, &userID)

	for i := 0; i < SEND_CHANNEL_SIZE; i++ {
		require.True(t, m.deliver(client, Message{ID: "fill"}))
	}
	assert.False(t, m.deliver(client, Message{ID: "overflow"}))
}

type stubTokens struct {
	valid  string
	userID uuid.UUID
}

func (s stubTokens) Parse(token string) (uuid.UUID, error) {
	if token != s.valid {
		return uuid.Nil, errors.New("bad signature")
	}
	return s.userID, nil
}

func TestHandleAuthResponse(t *testing.T) {
	userID := uuid.New()
	m := New(nil, stubTokens{valid: "good", userID: userID}, nil)

	rejected := addClient(m, nil)
	rejected.routeMessage(Message{Type: MESSAGE_TYPE_AUTH_RESPONSE, Data: map[string]any{"token": "forged"}})
	failure := <-rejected.send
	assert.Equal(t, MESSAGE_TYPE_AUTH_FAILURE, failure.Type)
	assert.False(t, m.isAuthenticated(rejected))

	accepted := addClient(m, nil)
	accepted.routeMessage(Message{Type: MESSAGE_TYPE_PING})
	assert.Equal(t, "authentication_required", (<-accepted.send).Action)

	accepted.routeMessage(Message{Type: MESSAGE_TYPE_AUTH_RESPONSE, Data: map[string]any{"token": "good"}})
	success := <-accepted.send
	assert.Equal(t, MESSAGE_TYPE_AUTH_SUCCESS, success.Type)
	assert.Equal(t, userID.String(), success.Data["userId"])

	accepted.routeMessage(Message{Type: MESSAGE_TYPE_PING})
	assert.Equal(t, MESSAGE_TYPE_PONG, (<-accepted.send).Type)
	assert.Equal(t, 1, m.SendMessageToUser(userID, Message{ID: "n1"}))
}

func TestUnregisterClient_RemovesUserIndex(t *testing.T) {
	m, _ := newTestManager(t)
	userID := uuid.New()
	phone := addClient(m, &userID)
	laptop := addClient(m, &userID)

	m.unregisterClient(phone)
	assert.Equal(t, 1, m.ConnectedUsers())

	m.unregisterClient(laptop)
	assert.Equal(t, 0, m.ConnectedUsers())
	assert.False(t, m.authenticate(laptop, userID))
}

func TestCacheInvalidationReachesAuthenticatedClients(t *testing.T) {
	m, bus := newTestManager(t)
	userID := uuid.New()
	owner := addClient(m, &userID)
	pending := addClient(m, nil)

	require.NoError(t, bus.PublishCacheInvalidation(context.Background(), "gamification", "settings"))

	select {
	case message := <-owner.send:
		assert.Equal(t, "invalidateCache", message.Action)
		assert.Equal(t, "gamification", message.Data["resourceType"])
	case <-time.After(time.Second):
		t.Fatal("invalidation was not delivered")
	}
	assert.Empty(t, pending.send)
}
