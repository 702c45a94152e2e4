package websockets

import (
	"context"
	"restocoach/internal/events"
	. "restocoach/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING          = "ping"
	MESSAGE_TYPE_PONG          = "pong"
	MESSAGE_TYPE_NOTIFICATION  = "notification"
	MESSAGE_TYPE_MESSAGE       = "message"
	MESSAGE_TYPE_AUTH_REQUEST  = "auth_request"
	MESSAGE_TYPE_AUTH_RESPONSE = "auth_response"
	MESSAGE_TYPE_AUTH_SUCCESS  = "auth_success"
	MESSAGE_TYPE_AUTH_FAILURE  = "auth_failure"

	CHANNEL_SYSTEM = "system"
	CHANNEL_USER   = "user"

	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func systemMessage(messageType, action string, data map[string]any) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      messageType,
		Channel:   CHANNEL_SYSTEM,
		Action:    action,
		Data:      data,
		Timestamp: time.Now(),
	}
}

type TokenParser interface {
	Parse(token string) (uuid.UUID, error)
}

type UserLookup interface {
	GetActiveUser(ctx context.Context, userID uuid.UUID) (*User, error)
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
}

// Manager pushes notifications and cache invalidations to connected restaurant owners.
// Sockets authenticate in-band with the same JWT as the REST API.
type Manager struct {
	hub    *Hub
	tokens TokenParser
	users  UserLookup
	log    logger.Logger
}

func New(eventBus *events.EventBus, tokens TokenParser, users UserLookup) *Manager {
	manager := &Manager{
		hub:    newHub(),
		tokens: tokens,
		users:  users,
		log:    logger.New("websockets"),
	}

	if eventBus != nil {
		eventBus.Subscribe(events.NOTIFICATION_CHANNEL, manager.handleNotificationEvent)
		eventBus.Subscribe(events.CACHE_INVALIDATION_CHANNEL, manager.handleCacheInvalidationEvent)
	}

	return manager
}

// HandleWebSocket serves one connection until either pump stops.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	client := &Client{
		ID:         uuid.New().String(),
		Connection: c,
		Manager:    m,
		Status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	if err := client.sendAuthRequest(); err != nil {
		_ = c.Close()
		return
	}

	m.registerClient(client)
	defer m.unregisterClient(client)
	client.startAuthTimeout()

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() { _ = c.Connection.Close() }()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	_ = c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Er("unexpected close", err, "clientID", c.ID)
			}
			return
		}
		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	if message.Type == MESSAGE_TYPE_AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if !c.Manager.isAuthenticated(c) {
		c.handleUnauthenticatedMessage(message)
		return
	}

	switch message.Type {
	case MESSAGE_TYPE_PING:
		c.Manager.deliver(c, systemMessage(MESSAGE_TYPE_PONG, "", nil))
	default:
		c.Manager.log.Function("routeMessage").Debug("ignoring client message", "clientID", c.ID, "type", message.Type)
	}
}

// writePump drains the send channel and keeps the connection alive with pings. It exits
// when unregister closes the channel or a write fails.
func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("write failed", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleNotificationEvent forwards a stored notification to the sockets of its user.
func (m *Manager) handleNotificationEvent(event events.Event) error {
	if event.UserID == nil {
		m.log.Function("handleNotificationEvent").Warn("notification event without user", "eventID", event.ID)
		return nil
	}

	m.SendMessageToUser(*event.UserID, Message{
		ID:        event.ID,
		Type:      MESSAGE_TYPE_NOTIFICATION,
		Channel:   CHANNEL_USER,
		Action:    "notification",
		UserID:    event.UserID.String(),
		Data:      event.Data,
		Timestamp: event.Timestamp,
	})
	return nil
}

// handleCacheInvalidationEvent tells every connected client to refetch the named resource.
func (m *Manager) handleCacheInvalidationEvent(event events.Event) error {
	resourceType, _ := event.Data["resourceType"].(string)
	if resourceType == "" {
		m.log.Function("handleCacheInvalidationEvent").Warn("invalidation without resourceType", "eventID", event.ID)
		return nil
	}

	m.sendToAuthenticatedClients(systemMessage(MESSAGE_TYPE_MESSAGE, "invalidateCache", map[string]any{
		"resourceType": resourceType,
		"resourceId":   event.Data["resourceId"],
	}))
	return nil
}
