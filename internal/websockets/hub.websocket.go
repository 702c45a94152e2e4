package websockets

import (
	"sync"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
)

// Hub is the client registry of one instance, indexed by connection and by user.
// Status, user binding and the send channel are only touched under mutex, and a client's
// send channel is closed exactly once, on unregister.
type Hub struct {
	mutex   sync.RWMutex
	clients map[string]*Client
	byUser  map[uuid.UUID]map[string]*Client
}

func newHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		byUser:  make(map[uuid.UUID]map[string]*Client),
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
}

func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}
	delete(m.hub.clients, client.ID)
	if sockets := m.hub.byUser[client.UserID]; sockets != nil {
		delete(sockets, client.ID)
		if len(sockets) == 0 {
			delete(m.hub.byUser, client.UserID)
		}
	}
	close(client.send)

	m.log.Function("unregisterClient").Debug("client unregistered", "clientID", client.ID, "userID", client.UserID)
}

// authenticate binds a registered client to userID. It reports false when the client
// disconnected during the handshake.
func (m *Manager) authenticate(client *Client, userID uuid.UUID) bool {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return false
	}

	client.Status = STATUS_AUTHENTICATED
	client.UserID = userID

	sockets := m.hub.byUser[userID]
	if sockets == nil {
		sockets = make(map[string]*Client)
		m.hub.byUser[userID] = sockets
	}
	sockets[client.ID] = client
	return true
}

func (m *Manager) isAuthenticated(client *Client) bool {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return client.Status == STATUS_AUTHENTICATED
}

// deliver queues a message for one client, dropping it when the client is gone or saturated.
func (m *Manager) deliver(client *Client, message Message) bool {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return m.deliverLocked(client, message)
}

func (m *Manager) deliverLocked(client *Client, message Message) bool {
	if _, ok := m.hub.clients[client.ID]; !ok {
		return false
	}

	select {
	case client.send <- message:
		return true
	default:
		m.log.Function("deliver").Warn("send buffer full, dropping message", "clientID", client.ID, "messageID", message.ID)
		return false
	}
}

// SendMessageToUser queues message on every authenticated socket of userID and returns
// how many accepted it.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.byUser[userID] {
		if m.deliverLocked(client, message) {
			sent++
		}
	}
	return sent
}

func (m *Manager) sendToAuthenticatedClients(message Message) int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, sockets := range m.hub.byUser {
		for _, client := range sockets {
			if m.deliverLocked(client, message) {
				sent++
			}
		}
	}
	return sent
}

// ConnectedUsers counts the distinct authenticated users connected to this instance.
func (m *Manager) ConnectedUsers() int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()
	return len(m.hub.byUser)
}
