package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string
type NotificationChannel string
type NotificationStatus string

const (
	NotificationTypeTaskCreated  NotificationType = "TASK_CREATED"
	NotificationTypeTaskUpdated  NotificationType = "TASK_UPDATED"
	NotificationTypeTaskDeleted  NotificationType = "TASK_DELETED"
	NotificationTypeTaskAssigned NotificationType = "TASK_ASSIGNED"
	NotificationTypeTaskDueSoon  NotificationType = "TASK_DUE_SOON"

	NotificationTypeCalendarEventCreated   NotificationType = "CALENDAR_EVENT_CREATED"
	NotificationTypeCalendarEventUpdated   NotificationType = "CALENDAR_EVENT_UPDATED"
	NotificationTypeCalendarEventReminder  NotificationType = "CALENDAR_EVENT_REMINDER"
	NotificationTypeCalendarEventCancelled NotificationType = "CALENDAR_EVENT_CANCELLED"

	NotificationChannelEmail NotificationChannel = "EMAIL"
	NotificationChannelPush  NotificationChannel = "PUSH"
	NotificationChannelInApp NotificationChannel = "IN_APP"

	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
	NotificationStatusRead    NotificationStatus = "READ"
)

// Notification is the persisted record of something that happened for a
// user, independent of how or whether it was delivered externally.
// ReadAt non-nil implies Status == READ; SentAt is set only by a dispatch
// attempt.
type Notification struct {
	BaseModel
	UserID   string              `gorm:"type:uuid;not null;index"`
	Type     NotificationType    `gorm:"not null"`
	Channel  NotificationChannel `gorm:"not null;default:IN_APP"`
	Title    string              `gorm:"not null"`
	Message  string              `gorm:"type:text;not null"`
	Metadata datatypes.JSON      `gorm:"type:jsonb"`
	Status   NotificationStatus  `gorm:"not null;default:PENDING"`
	SentAt   *time.Time
	ReadAt   *time.Time
}

// IsTaskType reports whether t belongs to the task domain; everything else
// in the closed enumeration is calendar.
func (t NotificationType) IsTaskType() bool {
	switch t {
	case NotificationTypeTaskCreated,
		NotificationTypeTaskUpdated,
		NotificationTypeTaskDeleted,
		NotificationTypeTaskAssigned,
		NotificationTypeTaskDueSoon:
		return true
	}
	return false
}

// IsValid reports whether t is one of the known notification types.
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeTaskCreated,
		NotificationTypeTaskUpdated,
		NotificationTypeTaskDeleted,
		NotificationTypeTaskAssigned,
		NotificationTypeTaskDueSoon,
		NotificationTypeCalendarEventCreated,
		NotificationTypeCalendarEventUpdated,
		NotificationTypeCalendarEventReminder,
		NotificationTypeCalendarEventCancelled:
		return true
	}
	return false
}
