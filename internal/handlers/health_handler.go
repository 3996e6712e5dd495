package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eyuppastirmaci/agenda-pulse/ws"
)

type HealthHandler struct {
	hub *ws.Hub
}

func NewHealthHandler(hub *ws.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "UP",
		"service":          "notification-service",
		"activeWebsockets": h.hub.ClientCount(),
	})
}
