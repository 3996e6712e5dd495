package events

import (
	"fmt"
	"time"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
)

// Human-readable start time used in calendar notification messages.
const startTimeLayout = "Jan 02, 2006 at 15:04"

const defaultReminderLeadMinutes = 15

// FromTaskEvent maps a task event onto zero or one notification event for
// the owning user. ASSIGNED events without an assignee produce nothing.
// An event type outside the enumeration is a contract violation.
func FromTaskEvent(event TaskEvent) (*NotificationEvent, error) {
	metadata := map[string]interface{}{
		"taskId":   event.ID,
		"priority": event.Priority,
		"dueDate":  event.DueDate,
	}

	switch event.EventType {
	case TaskEventCreated:
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeTaskCreated,
			Title:    "New Task Created",
			Message:  fmt.Sprintf("A new task '%s' has been created.", event.Title),
			Metadata: metadata,
		}, nil

	case TaskEventUpdated:
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeTaskUpdated,
			Title:    "Task Updated",
			Message:  fmt.Sprintf("Task '%s' has been updated.", event.Title),
			Metadata: metadata,
		}, nil

	case TaskEventAssigned:
		if event.AssignedTo == "" {
			return nil, nil
		}
		metadata["assignedBy"] = event.UserID
		return &NotificationEvent{
			UserID:   event.AssignedTo,
			Type:     models.NotificationTypeTaskAssigned,
			Title:    "Task Assigned to You",
			Message:  fmt.Sprintf("You have been assigned to task '%s'.", event.Title),
			Metadata: metadata,
		}, nil

	case TaskEventDeleted:
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeTaskDeleted,
			Title:    "Task Deleted",
			Message:  fmt.Sprintf("Task '%s' has been deleted.", event.Title),
			Metadata: metadata,
		}, nil

	case TaskEventCompleted:
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeTaskUpdated,
			Title:    "Task Completed",
			Message:  fmt.Sprintf("Task '%s' has been marked as completed.", event.Title),
			Metadata: metadata,
		}, nil
	}

	return nil, fmt.Errorf("unknown task event type: %q", event.EventType)
}

// FromCalendarEvent maps a calendar event onto notification events: one for
// the event owner and, for event types with an attendee-facing template, one
// per attendee other than the owner.
func FromCalendarEvent(event CalendarEvent) ([]NotificationEvent, error) {
	owner, err := ownerCalendarNotification(event)
	if err != nil {
		return nil, err
	}

	result := []NotificationEvent{*owner}
	for _, attendeeID := range event.Attendees {
		if attendeeID == event.UserID {
			continue
		}
		if attendee := attendeeCalendarNotification(event, attendeeID); attendee != nil {
			result = append(result, *attendee)
		}
	}

	return result, nil
}

func ownerCalendarNotification(event CalendarEvent) (*NotificationEvent, error) {
	metadata := map[string]interface{}{
		"eventId":   event.ID,
		"startTime": event.StartTime,
		"endTime":   event.EndTime,
		"location":  event.Location,
		"isAllDay":  event.IsAllDay,
	}

	formattedTime := formatStartTime(event.StartTime)

	switch event.EventType {
	case CalendarEventCreated:
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeCalendarEventCreated,
			Title:    "New Event Created",
			Message:  fmt.Sprintf("Event '%s' has been scheduled for %s.", event.Title, formattedTime),
			Metadata: metadata,
		}, nil

	case CalendarEventUpdated:
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeCalendarEventUpdated,
			Title:    "Event Updated",
			Message:  fmt.Sprintf("Event '%s' has been updated.", event.Title),
			Metadata: metadata,
		}, nil

	case CalendarEventReminder:
		lead := defaultReminderLeadMinutes
		if event.ReminderMinutesBefore != nil {
			lead = *event.ReminderMinutesBefore
		}
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeCalendarEventReminder,
			Title:    "Event Reminder",
			Message:  fmt.Sprintf("Reminder: '%s' starts in %d minutes.", event.Title, lead),
			Metadata: metadata,
		}, nil

	case CalendarEventCancelled:
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeCalendarEventCancelled,
			Title:    "Event Cancelled",
			Message:  fmt.Sprintf("Event '%s' has been cancelled.", event.Title),
			Metadata: metadata,
		}, nil

	case CalendarEventDeleted:
		return &NotificationEvent{
			UserID:   event.UserID,
			Type:     models.NotificationTypeCalendarEventCancelled,
			Title:    "Event Deleted",
			Message:  fmt.Sprintf("Event '%s' has been deleted.", event.Title),
			Metadata: metadata,
		}, nil
	}

	return nil, fmt.Errorf("unknown calendar event type: %q", event.EventType)
}

// attendeeCalendarNotification returns the attendee-facing copy, or nil for
// event types that have no attendee template.
func attendeeCalendarNotification(event CalendarEvent, attendeeID string) *NotificationEvent {
	metadata := map[string]interface{}{
		"eventId":     event.ID,
		"organizerId": event.UserID,
		"startTime":   event.StartTime,
		"location":    event.Location,
	}

	switch event.EventType {
	case CalendarEventCreated:
		return &NotificationEvent{
			UserID: attendeeID,
			Type:   models.NotificationTypeCalendarEventCreated,
			Title:  "You've been invited to an event",
			Message: fmt.Sprintf("You've been invited to '%s' on %s.",
				event.Title, formatStartTime(event.StartTime)),
			Metadata: metadata,
		}

	case CalendarEventCancelled:
		return &NotificationEvent{
			UserID: attendeeID,
			Type:   models.NotificationTypeCalendarEventCancelled,
			Title:  "Event Cancelled",
			Message: fmt.Sprintf("The event '%s' you were invited to has been cancelled.",
				event.Title),
			Metadata: metadata,
		}
	}

	return nil
}

func formatStartTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(startTimeLayout)
}
