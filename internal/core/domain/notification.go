package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyTicketingAvailable NotificationType = "TICKETING_AVAILABLE"
	NotifyQueueExpired       NotificationType = "QUEUE_EXPIRED"
	NotifyQueueCompleted     NotificationType = "QUEUE_COMPLETED"
	NotifyWaitingUpdate      NotificationType = "QUEUE_WAITING_UPDATE"
	NotifySeatStatus         NotificationType = "SEAT_STATUS_CHANGED"
)

// Notification is a fire-and-forget domain message. A zero UserID means the
// message is addressed to everyone following the event.
type Notification struct {
	Type       NotificationType `json:"type"`
	EventID    uuid.UUID        `json:"event_id"`
	UserID     uuid.UUID        `json:"user_id,omitempty"`
	Payload    map[string]any   `json:"payload,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func (n Notification) Channel() string {
	if n.UserID != uuid.Nil {
		return "user-" + n.UserID.String()
	}
	return "event-" + n.EventID.String()
}
