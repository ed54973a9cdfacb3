package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

// QueueIndex is the fast, derived view of the waiting room. The durable
// queue_entries table stays authoritative; every method here may fail without
// invalidating a durable outcome.
type QueueIndex interface {
	AddWaiting(ctx context.Context, eventID uuid.UUID, users []domain.RankedUser) error
	WaitingCount(ctx context.Context, eventID uuid.UUID) (int64, error)
	EnteredCount(ctx context.Context, eventID uuid.UUID) (int64, error)
	// WaitingPosition returns how many users are ahead and the waiting total.
	// found is false when the user is not in the waiting set.
	WaitingPosition(ctx context.Context, eventID, userID uuid.UUID) (ahead, total int64, found bool, err error)
	TopWaiting(ctx context.Context, eventID uuid.UUID, n int64) ([]domain.RankedUser, error)
	// ClaimWaiting atomically moves up to limit lowest-ranked users into the
	// entered set without letting the set grow past capacity.
	ClaimWaiting(ctx context.Context, eventID uuid.UUID, limit, capacity int64) ([]domain.RankedUser, error)
	ReleaseClaim(ctx context.Context, eventID uuid.UUID, user domain.RankedUser, requeue bool) error
	MarkEntered(ctx context.Context, eventID, userID uuid.UUID) error
	RemoveEntered(ctx context.Context, eventID, userID uuid.UUID) error
	Requeue(ctx context.Context, eventID uuid.UUID, user domain.RankedUser) error
	IsEntered(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	Rebuild(ctx context.Context, eventID uuid.UUID, waiting []domain.RankedUser, entered []uuid.UUID) error
	Clear(ctx context.Context, eventID uuid.UUID) error
}
