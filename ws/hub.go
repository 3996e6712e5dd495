// Package ws holds the live push connection registry and its HTTP handler.
package ws

import (
	"sync"

	"github.com/eyuppastirmaci/agenda-pulse/internal/logger"
)

// Hub tracks at most one live push connection per user. A new connection for
// a user replaces the prior binding without closing it (last-write-wins, the
// old peer times out on its own); per-slot operations are atomic but no lock
// is held across a whole fan-out, so one user's churn never blocks sends to
// others.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register binds client to its user id, replacing any prior binding.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.UserID] = client
	total := len(h.clients)
	h.mu.Unlock()

	logger.Info("push client registered", "user_id", client.UserID, "total", total)
}

// Unregister removes the binding for client, unless the user has already
// reconnected with a newer client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.UserID]
	if ok && current == client {
		delete(h.clients, client.UserID)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok && current == client {
		client.closeSend()
		logger.Info("push client unregistered", "user_id", client.UserID, "total", total)
	}
}

// SendToUser delivers payload to the user's live connection. An unknown or
// closed user is a silent no-op; a connection that cannot accept the payload
// is treated as stale and its binding removed.
func (h *Hub) SendToUser(userID string, payload []byte) {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		logger.Debug("no active push session", "user_id", userID)
		return
	}

	if !client.trySend(payload) {
		logger.Warn("push session stale, dropping binding", "user_id", userID)
		h.Unregister(client)
	}
}

// Broadcast delivers payload to every currently-open connection. Sends are
// independent; a failing connection is dropped without aborting the rest.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		snapshot = append(snapshot, client)
	}
	h.mu.RUnlock()

	for _, client := range snapshot {
		if !client.trySend(payload) {
			logger.Warn("broadcast to stale push session failed", "user_id", client.UserID)
			h.Unregister(client)
		}
	}
}

// IsConnected reports whether the user currently has a live session.
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// ClientCount returns the number of live sessions.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
