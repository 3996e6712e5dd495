// Package events defines the upstream domain event payloads consumed from
// the broker and the normalization into internal notification events.
package events

import (
	"time"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

type TaskEventType string
type CalendarEventType string

const (
	TaskEventCreated   TaskEventType = "CREATED"
	TaskEventUpdated   TaskEventType = "UPDATED"
	TaskEventDeleted   TaskEventType = "DELETED"
	TaskEventAssigned  TaskEventType = "ASSIGNED"
	TaskEventCompleted TaskEventType = "COMPLETED"

	CalendarEventCreated   CalendarEventType = "CREATED"
	CalendarEventUpdated   CalendarEventType = "UPDATED"
	CalendarEventDeleted   CalendarEventType = "DELETED"
	CalendarEventReminder  CalendarEventType = "REMINDER"
	CalendarEventCancelled CalendarEventType = "CANCELLED"
)

// TaskEvent is the payload published by the task service.
type TaskEvent struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	EventType   TaskEventType `json:"eventType"`
	Priority    string        `json:"priority"`
	DueDate     *time.Time    `json:"dueDate"`
	AssignedTo  string        `json:"assignedTo"`
}

// CalendarEvent is the payload published by the calendar service.
type CalendarEvent struct {
	ID                    string            `json:"id"`
	UserID                string            `json:"userId"`
	Title                 string            `json:"title"`
	Description           string            `json:"description"`
	EventType             CalendarEventType `json:"eventType"`
	StartTime             *time.Time        `json:"startTime"`
	EndTime               *time.Time        `json:"endTime"`
	Location              string            `json:"location"`
	Attendees             []string          `json:"attendees"`
	IsAllDay              bool              `json:"isAllDay"`
	ReminderMinutesBefore *int              `json:"reminderMinutesBefore"`
}

// NotificationEvent is the internal, transient shape handed to the
// notification pipeline. It is never persisted as its own record.
type NotificationEvent struct {
	UserID   string
	Type     models.NotificationType
	Title    string
	Message  string
	Metadata map[string]interface{}
}
