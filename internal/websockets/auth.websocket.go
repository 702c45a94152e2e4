package websockets

import (
	"context"
	"time"
)

const (
	AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second
	AUTH_CLOSE_DELAY       = 100 * time.Millisecond
)

// startAuthTimeout drops sockets that have not authenticated within AUTH_HANDSHAKE_TIMEOUT.
func (c *Client) startAuthTimeout() {
	time.AfterFunc(AUTH_HANDSHAKE_TIMEOUT, func() {
		if c.Manager.isAuthenticated(c) {
			return
		}
		c.Manager.log.Function("startAuthTimeout").Info("handshake timed out", "clientID", c.ID)
		c.sendAuthFailure("authentication_timeout", "Authentication timeout")
	})
}

// handleAuthResponse verifies the JWT in data.token and binds the socket to its active user.
func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Manager.isAuthenticated(c) {
		return
	}

	token, _ := message.Data["token"].(string)
	if token == "" {
		c.sendAuthFailure("authentication_failed", "Invalid token format")
		return
	}

	userID, err := c.Manager.tokens.Parse(token)
	if err != nil {
		log.Info("token rejected", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("authentication_failed", "Authentication failed")
		return
	}

	if c.Manager.users != nil {
		ctx, cancel := context.WithTimeout(context.Background(), WRITE_TIMEOUT)
		defer cancel()
		if _, err := c.Manager.users.GetActiveUser(ctx, userID); err != nil {
			log.Info("token names no active user", "clientID", c.ID, "userID", userID)
			c.sendAuthFailure("authentication_failed", "Authentication failed")
			return
		}
	}

	if !c.Manager.authenticate(c, userID) {
		return
	}
	log.Debug("socket authenticated", "clientID", c.ID, "userID", userID)

	c.Manager.deliver(c, systemMessage(MESSAGE_TYPE_AUTH_SUCCESS, "authenticated", map[string]any{
		"userId": userID.String(),
	}))
}

// sendAuthFailure notifies the client and closes the connection once the message had a
// chance to flush.
func (c *Client) sendAuthFailure(action, reason string) {
	c.Manager.deliver(c, systemMessage(MESSAGE_TYPE_AUTH_FAILURE, action, map[string]any{"reason": reason}))

	if c.Connection == nil {
		return
	}
	time.AfterFunc(AUTH_CLOSE_DELAY, func() {
		_ = c.Connection.Close()
	})
}

func (c *Client) sendAuthRequest() error {
	if err := c.Connection.WriteJSON(systemMessage(MESSAGE_TYPE_AUTH_REQUEST, "authenticate", nil)); err != nil {
		return c.Manager.log.Function("sendAuthRequest").Err("failed to send auth request", err, "clientID", c.ID)
	}
	return nil
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	c.Manager.log.Function("handleUnauthenticatedMessage").Debug("message before authentication",
		"clientID", c.ID,
		"type", message.Type,
	)
	c.Manager.deliver(c, systemMessage(MESSAGE_TYPE_AUTH_FAILURE, "authentication_required", map[string]any{
		"reason": "Authentication required",
	}))
}
