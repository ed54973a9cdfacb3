package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

// Transactor runs fn inside one durable-store transaction. Repositories pick
// the transaction up from the context passed to fn.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventRepository interface {
	GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	LockByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	FindDue(ctx context.Context, rule domain.LifecycleRule, now time.Time, limit int) ([]domain.Event, error)
	FindByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error)
	FindShuffleCandidates(ctx context.Context, openFrom, openTo time.Time) ([]domain.Event, error)
	// UpdateStatus is a compare-and-set on status; false means another writer
	// moved the event first.
	UpdateStatus(ctx context.Context, eventID uuid.UUID, from, to domain.EventStatus) (bool, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	CountExisting(ctx context.Context, userIDs []uuid.UUID) (int, error)
}

type PreRegisterRepository interface {
	ListUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

type QueueEntryRepository interface {
	ExistsByEvent(ctx context.Context, eventID uuid.UUID) (bool, error)
	BulkInsert(ctx context.Context, entries []domain.QueueEntry) error
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*domain.QueueEntry, error)
	// Transition persists entry only if the stored status still equals from.
	Transition(ctx context.Context, entry *domain.QueueEntry, from domain.QueueStatus) (bool, error)
	MaxRank(ctx context.Context, eventID uuid.UUID) (int64, error)
	CountWaitingAhead(ctx context.Context, eventID uuid.UUID, rank int64) (int64, error)
	CountByStatus(ctx context.Context, eventID uuid.UUID) (map[domain.QueueStatus]int64, error)
	ListByStatus(ctx context.Context, eventID uuid.UUID, status domain.QueueStatus) ([]domain.QueueEntry, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.QueueEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.QueueEntry, error)
	DeleteByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type SeatRepository interface {
	GetByID(ctx context.Context, seatID uuid.UUID) (*domain.Seat, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Seat, error)
	// UpdateStatus writes seat.Status when the stored version equals
	// expectedVersion and bumps the version by one.
	UpdateStatus(ctx context.Context, seat *domain.Seat, expectedVersion int) error
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, ticketID uuid.UUID) (*domain.Ticket, error)
	FindActiveBySeat(ctx context.Context, seatID uuid.UUID) (*domain.Ticket, error)
	FindActiveByUserAndEvent(ctx context.Context, userID, eventID uuid.UUID) (*domain.Ticket, error)
	// UpdateStatus persists ticket only if the stored status still equals
	// from; otherwise it returns ErrInvalidTicketState.
	UpdateStatus(ctx context.Context, ticket *domain.Ticket, from domain.TicketStatus) error
	ListStaleDrafts(ctx context.Context, createdBefore time.Time, limit int) ([]domain.Ticket, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Ticket, error)
}
