package domain

import (
	"time"

	"github.com/google/uuid"
)

type QueueStatus string

const (
	QueueWaiting   QueueStatus = "WAITING"
	QueueEntered   QueueStatus = "ENTERED"
	QueueExpired   QueueStatus = "EXPIRED"
	QueueCompleted QueueStatus = "COMPLETED"
)

var QueueStatuses = []QueueStatus{QueueWaiting, QueueEntered, QueueExpired, QueueCompleted}

type QueueEntry struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	UserID    uuid.UUID
	Rank      int64
	Status    QueueStatus
	EnteredAt *time.Time
	ExpiredAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RankedUser is the fast-store projection of a waiting entry.
type RankedUser struct {
	UserID uuid.UUID
	Rank   int64
}

func NewWaitingEntry(eventID, userID uuid.UUID, rank int64, now time.Time) QueueEntry {
	return QueueEntry{
		ID:        uuid.New(),
		EventID:   eventID,
		UserID:    userID,
		Rank:      rank,
		Status:    QueueWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func statusConflict(s QueueStatus) error {
	switch s {
	case QueueEntered:
		return ErrAlreadyEntered
	case QueueExpired:
		return ErrAlreadyExpired
	case QueueCompleted:
		return ErrAlreadyCompleted
	default:
		return ErrNotEnteredStatus
	}
}

// Enter admits a waiting user for the given purchase window.
func (q *QueueEntry) Enter(now time.Time, window time.Duration) error {
	if q.Status != QueueWaiting {
		return statusConflict(q.Status)
	}
	expiredAt := now.Add(window)
	q.Status = QueueEntered
	q.EnteredAt = &now
	q.ExpiredAt = &expiredAt
	q.UpdatedAt = now
	return nil
}

func (q *QueueEntry) Expire(now time.Time) error {
	if q.Status != QueueEntered {
		return statusConflict(q.Status)
	}
	q.Status = QueueExpired
	q.UpdatedAt = now
	return nil
}

func (q *QueueEntry) Complete(now time.Time) error {
	if q.Status != QueueEntered {
		return statusConflict(q.Status)
	}
	q.Status = QueueCompleted
	q.UpdatedAt = now
	return nil
}

func (q *QueueEntry) MoveToBack(newRank int64, now time.Time) error {
	if q.Status != QueueEntered {
		return ErrNotEnteredStatus
	}
	q.Status = QueueWaiting
	q.Rank = newRank
	q.EnteredAt = nil
	q.ExpiredAt = nil
	q.UpdatedAt = now
	return nil
}

func (q *QueueEntry) IsExpiredAt(now time.Time) bool {
	return q.Status == QueueEntered && q.ExpiredAt != nil && q.ExpiredAt.Before(now)
}
