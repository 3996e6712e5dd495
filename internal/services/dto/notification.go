package dto

import (
	"encoding/json"
	"time"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

// CreateNotificationRequest is the direct-creation payload accepted by the
// REST surface.
type CreateNotificationRequest struct {
	UserID   string                  `json:"userId" binding:"required,uuid"`
	Type     models.NotificationType `json:"type" binding:"required"`
	Title    string                  `json:"title" binding:"required"`
	Message  string                  `json:"message" binding:"required"`
	Metadata map[string]interface{}  `json:"metadata"`
}

type NotificationResponse struct {
	ID        string                     `json:"id"`
	UserID    string                     `json:"userId"`
	Type      models.NotificationType    `json:"type"`
	Channel   models.NotificationChannel `json:"channel"`
	Title     string                     `json:"title"`
	Message   string                     `json:"message"`
	Metadata  map[string]interface{}     `json:"metadata,omitempty"`
	Status    models.NotificationStatus  `json:"status"`
	CreatedAt time.Time                  `json:"createdAt"`
	SentAt    *time.Time                 `json:"sentAt,omitempty"`
	ReadAt    *time.Time                 `json:"readAt,omitempty"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"pageSize"`
	TotalPages    int                    `json:"totalPages"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// UpdatePreferenceRequest merges only the provided fields into the stored
// preference row.
type UpdatePreferenceRequest struct {
	EmailEnabled          *bool `json:"emailEnabled"`
	PushEnabled           *bool `json:"pushEnabled"`
	TaskNotifications     *bool `json:"taskNotifications"`
	CalendarNotifications *bool `json:"calendarNotifications"`
	ReminderMinutesBefore *int  `json:"reminderMinutesBefore"`
}

type PreferenceResponse struct {
	UserID                string `json:"userId"`
	EmailEnabled          bool   `json:"emailEnabled"`
	PushEnabled           bool   `json:"pushEnabled"`
	TaskNotifications     bool   `json:"taskNotifications"`
	CalendarNotifications bool   `json:"calendarNotifications"`
	ReminderMinutesBefore int    `json:"reminderMinutesBefore"`
}

// FromNotification builds the response DTO, decoding the jsonb metadata
// column back into a map.
func FromNotification(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Channel:   n.Channel,
		Title:     n.Title,
		Message:   n.Message,
		Status:    n.Status,
		CreatedAt: n.CreatedAt,
		SentAt:    n.SentAt,
		ReadAt:    n.ReadAt,
	}

	if len(n.Metadata) > 0 {
		var metadata map[string]interface{}
		if err := json.Unmarshal(n.Metadata, &metadata); err == nil {
			resp.Metadata = metadata
		}
	}

	return resp
}

func FromPreference(p *models.UserNotificationPreference) PreferenceResponse {
	return PreferenceResponse{
		UserID:                p.UserID,
		EmailEnabled:          p.EmailEnabled,
		PushEnabled:           p.PushEnabled,
		TaskNotifications:     p.TaskNotifications,
		CalendarNotifications: p.CalendarNotifications,
		ReminderMinutesBefore: p.ReminderMinutesBefore,
	}
}
