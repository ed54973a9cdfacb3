package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports"
)

// QueueReadService answers position and membership questions, preferring the
// fast index and falling back to the durable table.
type QueueReadService struct {
	entries ports.QueueEntryRepository
	index   ports.QueueIndex
	options
}

func NewQueueReadService(entries ports.QueueEntryRepository, index ports.QueueIndex, opts ...Option) *QueueReadService {
	return &QueueReadService{
		entries: entries,
		index:   index,
		options: buildOptions("queue_read", opts),
	}
}

func (s *QueueReadService) GetQueueStatus(ctx context.Context, eventID, userID uuid.UUID) (domain.QueueStatusView, error) {
	entry, err := s.entries.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return domain.QueueStatusView{}, err
	}

	return s.viewOf(ctx, entry)
}

func (s *QueueReadService) viewOf(ctx context.Context, entry *domain.QueueEntry) (domain.QueueStatusView, error) {
	if entry.Status != domain.QueueWaiting {
		return domain.NewEntryView(entry), nil
	}

	ahead, total, found, err := s.index.WaitingPosition(ctx, entry.EventID, entry.UserID)
	if err == nil && found {
		return domain.NewWaitingView(entry.EventID, entry.UserID, entry.Rank, ahead, total), nil
	}
	if err != nil {
		s.log.Warn("fast store position lookup failed, using database",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
	}

	ahead, err = s.entries.CountWaitingAhead(ctx, entry.EventID, entry.Rank)
	if err != nil {
		return domain.QueueStatusView{}, err
	}

	counts, err := s.entries.CountByStatus(ctx, entry.EventID)
	if err != nil {
		return domain.QueueStatusView{}, err
	}

	return domain.NewWaitingView(entry.EventID, entry.UserID, entry.Rank, ahead, counts[domain.QueueWaiting]), nil
}

// IsUserEntered checks the entered set first; a miss or an unavailable fast
// store falls through to the durable entry.
func (s *QueueReadService) IsUserEntered(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	ok, err := s.index.IsEntered(ctx, eventID, userID)
	if err == nil && ok {
		return true, nil
	}
	if err != nil {
		s.log.Warn("fast store membership lookup failed, using database",
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	entry, err := s.entries.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return entry.Status == domain.QueueEntered, nil
}

func (s *QueueReadService) ExistsInQueue(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	_, err := s.entries.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *QueueReadService) GetStatistics(ctx context.Context, eventID uuid.UUID) (domain.QueueStatistics, error) {
	counts, err := s.entries.CountByStatus(ctx, eventID)
	if err != nil {
		return domain.QueueStatistics{}, err
	}
	return domain.NewQueueStatistics(eventID, counts), nil
}

func (s *QueueReadService) GetMyQueues(ctx context.Context, userID uuid.UUID) ([]domain.QueueStatusView, error) {
	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.QueueStatusView, 0, len(entries))
	for i := range entries {
		v, err := s.viewOf(ctx, &entries[i])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return views, nil
}
