package models

import "time"

// UserNotificationPreference holds per-user delivery opt-ins. Exactly zero
// or one row per user; absence means "use defaults".
type UserNotificationPreference struct {
	UserID                string    `gorm:"type:uuid;primaryKey"`
	EmailEnabled          bool      `gorm:"not null;default:true"`
	PushEnabled           bool      `gorm:"not null;default:true"`
	TaskNotifications     bool      `gorm:"not null;default:true"`
	CalendarNotifications bool      `gorm:"not null;default:true"`
	ReminderMinutesBefore int       `gorm:"not null;default:15"`
	CreatedAt             time.Time
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}

// DefaultPreferences returns the preference row used when a user has none.
func DefaultPreferences(userID string) *UserNotificationPreference {
	return &UserNotificationPreference{
		UserID:                userID,
		EmailEnabled:          true,
		PushEnabled:           true,
		TaskNotifications:     true,
		CalendarNotifications: true,
		ReminderMinutesBefore: 15,
	}
}

// AllowsCategory reports whether notifications of the given type may use the
// email channel for this user. Push is intentionally not category-gated.
func (p *UserNotificationPreference) AllowsCategory(t NotificationType) bool {
	if t.IsTaskType() {
		return p.TaskNotifications
	}
	return p.CalendarNotifications
}
