package ws

import (
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eyuppastirmaci/agenda-pulse/internal/logger"
)

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 256
)

const (
	connectionAckFrame = `{"type":"CONNECTION","message":"Connected to notification service"}`
	pongFrame          = `{"type":"PONG"}`
)

// Client is one authenticated push connection bound to a user identity.
type Client struct {
	UserID string

	conn *websocket.Conn
	hub  *Hub

	send      chan []byte
	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		UserID: userID,
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendQueueSize),
	}
}

// trySend queues payload for delivery without blocking. It returns false
// when the client's queue is full or already closed.
func (c *Client) trySend(payload []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump consumes inbound frames. This is a push-only channel: the only
// application inbound traffic is the liveness ping, everything else is
// ignored. Read errors tear the session down.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("push connection read error", "user_id", c.UserID, "error", err.Error())
			}
			return
		}

		if strings.Contains(string(payload), "PING") {
			if !c.trySend([]byte(pongFrame)) {
				return
			}
		}
	}
}

// writePump drains the send queue onto the wire. A write failure ends the
// pump; readPump's deferred teardown then removes the binding.
func (c *Client) writePump() {
	defer c.conn.Close()

	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Debug("push connection write error", "user_id", c.UserID, "error", err.Error())
			return
		}
	}

	c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
}
