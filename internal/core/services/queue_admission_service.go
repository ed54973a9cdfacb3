package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports"
	"github.com/srgjo27/flashsale_ticket/internal/platform/telemetry"
)

// BatchResult reports a per-user batch where one failure never stops the rest.
type BatchResult struct {
	Succeeded []uuid.UUID
	Failed    map[uuid.UUID]error
}

func newBatchResult() BatchResult {
	return BatchResult{Failed: make(map[uuid.UUID]error)}
}

func (r BatchResult) Len() int {
	return len(r.Succeeded) + len(r.Failed)
}

// QueueAdmissionService drives queue entries through
// WAITING -> ENTERED -> EXPIRED | COMPLETED, and ENTERED -> WAITING on requeue.
type QueueAdmissionService struct {
	tx        ports.Transactor
	events    ports.EventRepository
	entries   ports.QueueEntryRepository
	index     ports.QueueIndex
	publisher ports.Publisher
	settings  QueueSettings
	options
}

func NewQueueAdmissionService(
	tx ports.Transactor,
	events ports.EventRepository,
	entries ports.QueueEntryRepository,
	index ports.QueueIndex,
	publisher ports.Publisher,
	settings QueueSettings,
	opts ...Option,
) *QueueAdmissionService {
	return &QueueAdmissionService{
		tx:        tx,
		events:    events,
		entries:   entries,
		index:     index,
		publisher: publisher,
		settings:  settings,
		options:   buildOptions("queue_admission", opts),
	}
}

// ProcessEntry admits one waiting user. The durable row is updated with a
// status compare-and-set, so of several concurrent calls exactly one wins.
func (s *QueueAdmissionService) ProcessEntry(ctx context.Context, eventID, userID uuid.UUID) (entry *domain.QueueEntry, err error) {
	defer func() { s.metrics.QueueOp("process_entry", err) }()

	entry, err = s.entries.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := entry.Enter(now, s.settings.EntryWindow); err != nil {
		return nil, err
	}

	ok, err := s.entries.Transition(ctx, entry, domain.QueueWaiting)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.lostRace(ctx, eventID, userID, domain.ErrAlreadyEntered, func(e *domain.QueueEntry) error {
			return e.Enter(now, s.settings.EntryWindow)
		})
	}

	if err := s.index.MarkEntered(ctx, eventID, userID); err != nil {
		s.fastStoreFailed("mark_entered", eventID, userID, err)
	}

	s.notify(ctx, domain.Notification{
		Type:    domain.NotifyTicketingAvailable,
		EventID: eventID,
		UserID:  userID,
		Payload: map[string]any{
			"entered_at": entry.EnteredAt,
			"expired_at": entry.ExpiredAt,
		},
		OccurredAt: now,
	})

	return entry, nil
}

// lostRace reloads the entry after a compare-and-set miss and reports the
// conflict that matches its current status.
func (s *QueueAdmissionService) lostRace(ctx context.Context, eventID, userID uuid.UUID, fallback error, retry func(*domain.QueueEntry) error) error {
	current, err := s.entries.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if err := retry(current); err != nil {
		return err
	}
	return fallback
}

func (s *QueueAdmissionService) ProcessBatchEntry(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID) BatchResult {
	result := newBatchResult()

	for _, userID := range userIDs {
		if _, err := s.ProcessEntry(ctx, eventID, userID); err != nil {
			s.log.Warn("failed to admit user",
				zap.String("event_id", eventID.String()),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			result.Failed[userID] = err
			continue
		}
		result.Succeeded = append(result.Succeeded, userID)
	}

	return result
}

// ProcessEventQueueEntries admits the next batch of an OPEN event, never
// letting the entered set exceed the configured capacity.
func (s *QueueAdmissionService) ProcessEventQueueEntries(ctx context.Context, event *domain.Event) (result BatchResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "queue.process_event_entries", attribute.String("event_id", event.ID.String()))
	defer func() { telemetry.End(span, err) }()

	result = newBatchResult()

	if event.Status != domain.EventOpen {
		return result, fmt.Errorf("%w: event %s is %s", domain.ErrInvalidEventStatus, event.ID, event.Status)
	}

	waiting, err := s.index.WaitingCount(ctx, event.ID)
	if err != nil {
		return result, err
	}
	entered, err := s.index.EnteredCount(ctx, event.ID)
	if err != nil {
		return result, err
	}

	s.metrics.SetQueueLength(event.ID.String(), "waiting", waiting)
	s.metrics.SetQueueLength(event.ID.String(), "entered", entered)

	capacity := s.settings.MaxEntered
	if waiting == 0 || entered >= capacity {
		return result, nil
	}

	admitCount := min(s.settings.BatchSize, capacity-entered, waiting)

	claimed, err := s.index.ClaimWaiting(ctx, event.ID, admitCount, capacity)
	if err != nil {
		return result, err
	}
	if len(claimed) == 0 {
		return result, nil
	}

	ids := make([]uuid.UUID, len(claimed))
	ranks := make(map[uuid.UUID]int64, len(claimed))
	for i, c := range claimed {
		ids[i] = c.UserID
		ranks[c.UserID] = c.Rank
	}

	result = s.ProcessBatchEntry(ctx, event.ID, ids)

	for userID, cause := range result.Failed {
		s.releaseClaim(ctx, event.ID, domain.RankedUser{UserID: userID, Rank: ranks[userID]}, cause)
	}

	s.log.Info("queue batch processed",
		zap.String("event_id", event.ID.String()),
		zap.Int64("requested", admitCount),
		zap.Int("admitted", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
	)

	if len(result.Succeeded) > 0 {
		if err := s.PublishWaitingUpdates(ctx, event.ID); err != nil {
			s.log.Warn("failed to publish waiting updates", zap.String("event_id", event.ID.String()), zap.Error(err))
		}
	}

	return result, nil
}

// releaseClaim hands a claimed slot back. Users that are already admitted
// keep it, users with a finished entry lose it, and anyone else goes back to
// the waiting set at their rank.
func (s *QueueAdmissionService) releaseClaim(ctx context.Context, eventID uuid.UUID, user domain.RankedUser, cause error) {
	if errors.Is(cause, domain.ErrAlreadyEntered) {
		return
	}

	requeue := !(errors.Is(cause, domain.ErrAlreadyExpired) ||
		errors.Is(cause, domain.ErrAlreadyCompleted) ||
		errors.Is(cause, domain.ErrQueueEntryNotFound))

	if err := s.index.ReleaseClaim(ctx, eventID, user, requeue); err != nil {
		s.fastStoreFailed("release_claim", eventID, user.UserID, err)
	}
}

// ProcessOpenEvents runs one admission round for every OPEN event.
func (s *QueueAdmissionService) ProcessOpenEvents(ctx context.Context) error {
	events, err := s.events.FindByStatus(ctx, domain.EventOpen)
	if err != nil {
		return fmt.Errorf("find open events: %w", err)
	}

	for i := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.ProcessEventQueueEntries(ctx, &events[i]); err != nil {
			s.log.Error("admission round failed", zap.String("event_id", events[i].ID.String()), zap.Error(err))
		}
	}

	return nil
}

// PublishWaitingUpdates sends each of the first users in line their current
// position.
func (s *QueueAdmissionService) PublishWaitingUpdates(ctx context.Context, eventID uuid.UUID) error {
	top, err := s.index.TopWaiting(ctx, eventID, s.settings.WaitingBroadcast)
	if err != nil {
		return err
	}
	if len(top) == 0 {
		return nil
	}

	total, err := s.index.WaitingCount(ctx, eventID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	for i, u := range top {
		view := domain.NewWaitingView(eventID, u.UserID, u.Rank, int64(i), total)
		s.notify(ctx, domain.Notification{
			Type:    domain.NotifyWaitingUpdate,
			EventID: eventID,
			UserID:  u.UserID,
			Payload: map[string]any{
				"rank":                   view.Rank,
				"waiting_ahead":          view.WaitingAhead,
				"estimated_wait_minutes": view.EstimatedWaitMinutes,
				"progress":               view.Progress,
			},
			OccurredAt: now,
		})
	}

	return nil
}

// ExpireEntry closes an admitted user's purchase window. Entries that are not
// ENTERED are rejected with the conflict matching their status.
func (s *QueueAdmissionService) ExpireEntry(ctx context.Context, eventID, userID uuid.UUID) (err error) {
	defer func() { s.metrics.QueueOp("expire", err) }()

	return s.finish(ctx, eventID, userID, domain.ErrAlreadyExpired, domain.NotifyQueueExpired, (*domain.QueueEntry).Expire)
}

func (s *QueueAdmissionService) ExpireBatchEntries(ctx context.Context, entries []domain.QueueEntry) BatchResult {
	result := newBatchResult()

	for _, e := range entries {
		if err := s.ExpireEntry(ctx, e.EventID, e.UserID); err != nil {
			s.log.Warn("failed to expire entry",
				zap.String("event_id", e.EventID.String()),
				zap.String("user_id", e.UserID.String()),
				zap.Error(err),
			)
			result.Failed[e.UserID] = err
			continue
		}
		result.Succeeded = append(result.Succeeded, e.UserID)
	}

	return result
}

// ExpireDueEntries expires every ENTERED entry whose window has passed.
func (s *QueueAdmissionService) ExpireDueEntries(ctx context.Context) (BatchResult, error) {
	now := s.clock.Now()
	listed, err := s.entries.ListExpired(ctx, now, s.settings.ExpireBatchLimit)
	if err != nil {
		return newBatchResult(), fmt.Errorf("list expired entries: %w", err)
	}

	// The store compares against its own clock; only expire what is past due
	// by ours.
	due := listed[:0]
	for _, e := range listed {
		if e.IsExpiredAt(now) {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return newBatchResult(), nil
	}

	result := s.ExpireBatchEntries(ctx, due)
	s.log.Info("expired queue entries",
		zap.Int("checked", result.Len()),
		zap.Int("expired", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// CompletePayment marks an admitted user's entry as done after purchase.
func (s *QueueAdmissionService) CompletePayment(ctx context.Context, eventID, userID uuid.UUID) (err error) {
	defer func() { s.metrics.QueueOp("complete", err) }()

	return s.finish(ctx, eventID, userID, domain.ErrAlreadyCompleted, domain.NotifyQueueCompleted, (*domain.QueueEntry).Complete)
}

func (s *QueueAdmissionService) finish(
	ctx context.Context,
	eventID, userID uuid.UUID,
	fallback error,
	kind domain.NotificationType,
	apply func(*domain.QueueEntry, time.Time) error,
) error {
	entry, err := s.entries.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if err := apply(entry, now); err != nil {
		return err
	}

	ok, err := s.entries.Transition(ctx, entry, domain.QueueEntered)
	if err != nil {
		return err
	}
	if !ok {
		return s.lostRace(ctx, eventID, userID, fallback, func(e *domain.QueueEntry) error {
			return apply(e, now)
		})
	}

	if err := s.index.RemoveEntered(ctx, eventID, userID); err != nil {
		s.fastStoreFailed("remove_entered", eventID, userID, err)
	}

	s.notify(ctx, domain.Notification{
		Type:       kind,
		EventID:    eventID,
		UserID:     userID,
		OccurredAt: now,
	})

	return nil
}

// MoveToBackQueue sends an admitted user to the end of the line. The event
// row lock serializes concurrent requeues so each gets a distinct rank.
func (s *QueueAdmissionService) MoveToBackQueue(ctx context.Context, eventID, userID uuid.UUID) (entry *domain.QueueEntry, err error) {
	defer func() { s.metrics.QueueOp("move_to_back", err) }()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.events.LockByID(ctx, eventID); err != nil {
			return err
		}

		e, err := s.entries.GetByEventAndUser(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if e.Status != domain.QueueEntered {
			return domain.ErrNotEnteredStatus
		}

		maxRank, err := s.entries.MaxRank(ctx, eventID)
		if err != nil {
			return err
		}

		if err := e.MoveToBack(maxRank+1, s.clock.Now()); err != nil {
			return err
		}

		ok, err := s.entries.Transition(ctx, e, domain.QueueEntered)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotEnteredStatus
		}

		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.index.Requeue(ctx, eventID, domain.RankedUser{UserID: userID, Rank: entry.Rank}); err != nil {
		s.fastStoreFailed("requeue", eventID, userID, err)
	}

	s.log.Info("user moved to back of queue",
		zap.String("event_id", eventID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("rank", entry.Rank),
	)

	return entry, nil
}

func (s *QueueAdmissionService) notify(ctx context.Context, n domain.Notification) {
	if err := s.publisher.Publish(ctx, n); err != nil {
		s.log.Warn("failed to publish notification",
			zap.String("type", string(n.Type)),
			zap.String("event_id", n.EventID.String()),
			zap.String("user_id", n.UserID.String()),
			zap.Error(err),
		)
	}
}

func (s *QueueAdmissionService) fastStoreFailed(op string, eventID, userID uuid.UUID, err error) {
	s.metrics.FastStoreFailure(op)
	s.log.Warn("fast store update failed",
		zap.String("op", op),
		zap.String("event_id", eventID.String()),
		zap.String("user_id", userID.String()),
		zap.Error(err),
	)
}
