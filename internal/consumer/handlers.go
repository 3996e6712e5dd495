package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eyuppastirmaci/agenda-pulse/internal/events"
	"github.com/eyuppastirmaci/agenda-pulse/internal/logger"
	"github.com/eyuppastirmaci/agenda-pulse/internal/services"
)

// TaskEventHandler decodes task lifecycle events and feeds the resulting
// notification through the delivery pipeline.
func TaskEventHandler(service services.NotificationService) Handler {
	return func(ctx context.Context, payload []byte) error {
		var event events.TaskEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("decode task event: %w", err)
		}

		notification, err := events.FromTaskEvent(event)
		if err != nil {
			return fmt.Errorf("normalize task event: %w", err)
		}
		if notification == nil {
			// Valid event that produces no notification, e.g. an assignment
			// without an assignee.
			logger.Debug("task event produced no notification",
				"taskId", event.ID, "eventType", event.EventType)
			return nil
		}

		service.Process(ctx, *notification)
		return nil
	}
}

// CalendarEventHandler decodes calendar events and fans the notification out
// to the owner and every attendee.
func CalendarEventHandler(service services.NotificationService) Handler {
	return func(ctx context.Context, payload []byte) error {
		var event events.CalendarEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("decode calendar event: %w", err)
		}

		notifications, err := events.FromCalendarEvent(event)
		if err != nil {
			return fmt.Errorf("normalize calendar event: %w", err)
		}

		for _, notification := range notifications {
			service.Process(ctx, notification)
		}
		return nil
	}
}
