package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eyuppastirmaci/agenda-pulse/internal/services"
	"github.com/eyuppastirmaci/agenda-pulse/internal/services/dto"
	"github.com/eyuppastirmaci/agenda-pulse/pkg/apperrors"
)

type NotificationHandler struct {
	BaseHandler
	service     services.NotificationService
	preferences services.PreferenceService
}

func NewNotificationHandler(service services.NotificationService, preferences services.PreferenceService) *NotificationHandler {
	return &NotificationHandler{service: service, preferences: preferences}
}

func (h *NotificationHandler) RegisterRoutes(api *gin.RouterGroup) {
	notifications := api.Group("/notifications")
	{
		notifications.POST("", h.Create)
		notifications.GET("/:id", h.GetNotification)
		notifications.GET("/user/:userId", h.GetUserNotifications)
		notifications.GET("/user/:userId/unread", h.GetUnread)
		notifications.GET("/user/:userId/unread-count", h.GetUnreadCount)
		notifications.PUT("/:id/read", h.MarkAsRead)
		notifications.PUT("/user/:userId/read-all", h.MarkAllAsRead)
		notifications.GET("/user/:userId/preferences", h.GetPreferences)
		notifications.PUT("/user/:userId/preferences", h.UpdatePreferences)
	}
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *NotificationHandler) GetNotification(c *gin.Context) {
	resp, err := h.service.GetNotification(c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	page := queryInt(c, "page", 0)
	pageSize := queryInt(c, "size", services.DefaultPageSize)

	resp, err := h.service.GetUserNotifications(c.Param("userId"), page, pageSize)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetUnread(c *gin.Context) {
	resp, err := h.service.GetUnread(c.Param("userId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	resp, err := h.service.GetUnreadCount(c.Param("userId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	if err := h.service.MarkAsRead(c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.service.MarkAllAsRead(c.Param("userId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	resp, err := h.preferences.GetPreferences(c.Param("userId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var req dto.UpdatePreferenceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.preferences.UpdatePreferences(c.Param("userId"), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
