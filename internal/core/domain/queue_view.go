package domain

import (
	"time"

	"github.com/google/uuid"
)

const minutesPerWaitingUser = 2

type QueueStatusView struct {
	EventID              uuid.UUID   `json:"event_id"`
	UserID               uuid.UUID   `json:"user_id"`
	Status               QueueStatus `json:"status"`
	Rank                 int64       `json:"rank,omitempty"`
	WaitingAhead         int64       `json:"waiting_ahead"`
	EstimatedWaitMinutes int64       `json:"estimated_wait_minutes"`
	Progress             int         `json:"progress"`
	EnteredAt            *time.Time  `json:"entered_at,omitempty"`
	ExpiredAt            *time.Time  `json:"expired_at,omitempty"`
}

// NewWaitingView derives the user-facing position from the number of users
// ahead and the current size of the waiting set.
func NewWaitingView(eventID, userID uuid.UUID, rank, ahead, total int64) QueueStatusView {
	v := QueueStatusView{
		EventID:      eventID,
		UserID:       userID,
		Status:       QueueWaiting,
		Rank:         rank,
		WaitingAhead: ahead,
	}
	switch {
	case total <= 0:
		v.EstimatedWaitMinutes = 1
	case ahead <= 0:
		v.EstimatedWaitMinutes = 1
		v.Progress = 99
	default:
		v.EstimatedWaitMinutes = ahead * minutesPerWaitingUser
		v.Progress = int((total - ahead) * 100 / total)
	}
	return v
}

// NewEntryView describes an entry that is no longer waiting.
func NewEntryView(e *QueueEntry) QueueStatusView {
	v := QueueStatusView{
		EventID:   e.EventID,
		UserID:    e.UserID,
		Status:    e.Status,
		EnteredAt: e.EnteredAt,
		ExpiredAt: e.ExpiredAt,
	}
	if e.Status == QueueEntered || e.Status == QueueCompleted {
		v.Progress = 100
	}
	return v
}

type QueueStatistics struct {
	EventID   uuid.UUID `json:"event_id"`
	Waiting   int64     `json:"waiting"`
	Entered   int64     `json:"entered"`
	Expired   int64     `json:"expired"`
	Completed int64     `json:"completed"`
	Total     int64     `json:"total"`
}

func NewQueueStatistics(eventID uuid.UUID, counts map[QueueStatus]int64) QueueStatistics {
	s := QueueStatistics{
		EventID:   eventID,
		Waiting:   counts[QueueWaiting],
		Entered:   counts[QueueEntered],
		Expired:   counts[QueueExpired],
		Completed: counts[QueueCompleted],
	}
	s.Total = s.Waiting + s.Entered + s.Expired + s.Completed
	return s
}
