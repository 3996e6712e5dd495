package ws

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/eyuppastirmaci/agenda-pulse/internal/auth"
	"github.com/eyuppastirmaci/agenda-pulse/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler authenticates and upgrades push connections.
type Handler struct {
	hub      *Hub
	verifier *auth.TokenVerifier
}

func NewHandler(hub *Hub, verifier *auth.TokenVerifier) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
	}
}

// ServeWS handles the push handshake: the bearer token comes from either the
// "token" query parameter or the Authorization header; a verification
// failure rejects the connection before any registry state is created.
func (h *Handler) ServeWS(c *gin.Context) {
	token := extractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	userID, err := h.verifier.Verify(token)
	if err != nil {
		logger.Warn("unauthorized push connection attempt", "error", err.Error())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err.Error())
		return
	}

	client := newClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.writePump()
	go client.readPump()

	client.trySend([]byte(connectionAckFrame))
}

func extractToken(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return ""
}
