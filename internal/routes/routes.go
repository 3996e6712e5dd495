package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/eyuppastirmaci/agenda-pulse/internal/auth"
	"github.com/eyuppastirmaci/agenda-pulse/internal/handlers"
	"github.com/eyuppastirmaci/agenda-pulse/internal/middleware"
	"github.com/eyuppastirmaci/agenda-pulse/ws"
)

// Register wires all HTTP and WebSocket routes. REST endpoints live under
// /api/v1 behind bearer auth; the websocket handler authenticates on its own
// because browsers cannot set headers on the upgrade request.
func Register(
	router *gin.Engine,
	verifier *auth.TokenVerifier,
	notificationHandler *handlers.NotificationHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *ws.Handler,
) {
	healthHandler.RegisterRoutes(router)

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(verifier))
	{
		notificationHandler.RegisterRoutes(api)
	}

	router.GET("/ws/notifications", wsHandler.ServeWS)
}
