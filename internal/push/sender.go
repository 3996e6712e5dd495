// Package push adapts the live session registry into a notification channel
// sender.
package push

import (
	"encoding/json"
	"fmt"

	"github.com/eyuppastirmaci/agenda-pulse/internal/models"
	"github.com/eyuppastirmaci/agenda-pulse/internal/services/dto"
	"github.com/eyuppastirmaci/agenda-pulse/ws"
)

// Sender serializes a notification to its wire form and hands it to the push
// session registry. Offline users are a silent no-op inside the registry;
// only serialization can fail here.
type Sender struct {
	hub *ws.Hub
}

func NewSender(hub *ws.Hub) *Sender {
	return &Sender{hub: hub}
}

func (s *Sender) Send(notification *models.Notification) error {
	payload, err := json.Marshal(dto.FromNotification(notification))
	if err != nil {
		return fmt.Errorf("failed to serialize notification %s: %w", notification.ID, err)
	}

	s.hub.SendToUser(notification.UserID, payload)
	return nil
}
