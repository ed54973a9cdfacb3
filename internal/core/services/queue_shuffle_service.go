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

// QueueShuffleService opens an event's waiting room by assigning random ranks
// to the registered users.
type QueueShuffleService struct {
	tx      ports.Transactor
	events  ports.EventRepository
	entries ports.QueueEntryRepository
	users   ports.UserRepository
	preRegs ports.PreRegisterRepository
	index   ports.QueueIndex
	options
}

func NewQueueShuffleService(
	tx ports.Transactor,
	events ports.EventRepository,
	entries ports.QueueEntryRepository,
	users ports.UserRepository,
	preRegs ports.PreRegisterRepository,
	index ports.QueueIndex,
	opts ...Option,
) *QueueShuffleService {
	return &QueueShuffleService{
		tx:      tx,
		events:  events,
		entries: entries,
		users:   users,
		preRegs: preRegs,
		index:   index,
		options: buildOptions("queue_shuffle", opts),
	}
}

// ShuffleQueue writes one WAITING entry per candidate with ranks 1..N in
// random order, mirrors the ranks to the fast index and moves the event to
// QUEUE_READY. Everything happens in one transaction; a failed mirror rolls
// the durable rows back and surfaces ErrExternalStore.
func (s *QueueShuffleService) ShuffleQueue(ctx context.Context, eventID uuid.UUID, candidateUserIDs []uuid.UUID) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "queue.shuffle",
		attribute.String("event_id", eventID.String()),
		attribute.Int("candidates", len(candidateUserIDs)),
	)
	defer func() {
		telemetry.End(span, err)
		s.metrics.QueueOp("shuffle", err)
	}()

	if len(candidateUserIDs) == 0 {
		return domain.ErrEmptyInput
	}

	found, err := s.users.CountExisting(ctx, candidateUserIDs)
	if err != nil {
		return fmt.Errorf("resolve candidates: %w", err)
	}
	if found != len(candidateUserIDs) {
		return fmt.Errorf("%w: %d candidates, %d registered users", domain.ErrInvalidCandidateList, len(candidateUserIDs), found)
	}

	order, err := shuffleUsers(candidateUserIDs, s.random)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	entries := make([]domain.QueueEntry, len(order))
	ranked := make([]domain.RankedUser, len(order))
	for i, userID := range order {
		rank := int64(i + 1)
		entries[i] = domain.NewWaitingEntry(eventID, userID, rank, now)
		ranked[i] = domain.RankedUser{UserID: userID, Rank: rank}
	}

	mirrored := false
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.events.LockByID(ctx, eventID)
		if err != nil {
			return err
		}

		exists, err := s.entries.ExistsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrQueueAlreadyExists
		}

		// PRE_CLOSED, or QUEUE_READY after a reset.
		if event.Status.Precedes(domain.EventPreClosed) || domain.EventQueueReady.Precedes(event.Status) {
			return fmt.Errorf("%w: event %s is %s", domain.ErrInvalidEventStatus, eventID, event.Status)
		}

		if err := s.entries.BulkInsert(ctx, entries); err != nil {
			return err
		}

		mirrored = true
		if err := s.index.AddWaiting(ctx, eventID, ranked); err != nil {
			if !domain.IsExternalStore(err) {
				err = fmt.Errorf("%w: %w", domain.ErrExternalStore, err)
			}
			return err
		}

		if event.Status == domain.EventPreClosed {
			ok, err := s.events.UpdateStatus(ctx, eventID, domain.EventPreClosed, domain.EventQueueReady)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: event %s changed status during shuffle", domain.ErrInvalidEventStatus, eventID)
			}
		}

		return nil
	})

	if err != nil {
		if mirrored {
			if clearErr := s.index.Clear(ctx, eventID); clearErr != nil {
				s.log.Warn("failed to clear partial queue index", zap.String("event_id", eventID.String()), zap.Error(clearErr))
				s.metrics.FastStoreFailure("clear")
			}
		}
		return err
	}

	s.log.Info("queue shuffled",
		zap.String("event_id", eventID.String()),
		zap.Int("entries", len(entries)),
	)

	return nil
}

// AutoShuffle shuffles every registration-closed event whose ticket sale
// opens within window of now+lead, using its pre-registered users.
func (s *QueueShuffleService) AutoShuffle(ctx context.Context, lead, window time.Duration) (int, error) {
	target := s.clock.Now().Add(lead)

	events, err := s.events.FindShuffleCandidates(ctx, target.Add(-window), target.Add(window))
	if err != nil {
		return 0, fmt.Errorf("find shuffle candidates: %w", err)
	}

	shuffled := 0
	for _, event := range events {
		if ctx.Err() != nil {
			return shuffled, ctx.Err()
		}

		userIDs, err := s.preRegs.ListUserIDs(ctx, event.ID)
		if err != nil {
			s.log.Error("failed to load pre-registrations", zap.String("event_id", event.ID.String()), zap.Error(err))
			continue
		}

		if err := s.ShuffleQueue(ctx, event.ID, userIDs); err != nil {
			switch {
			case errors.Is(err, domain.ErrQueueAlreadyExists):
				s.log.Debug("queue already shuffled", zap.String("event_id", event.ID.String()))
			case domain.IsInvalidInput(err):
				s.log.Warn("auto shuffle skipped", zap.String("event_id", event.ID.String()), zap.Error(err))
			default:
				s.log.Error("auto shuffle failed", zap.String("event_id", event.ID.String()), zap.Error(err))
			}
			continue
		}

		shuffled++
	}

	return shuffled, nil
}

// ResetQueue drops every entry of the event and its fast index. The event
// status is left as is.
func (s *QueueShuffleService) ResetQueue(ctx context.Context, eventID uuid.UUID) (int64, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return 0, err
	}

	deleted, err := s.entries.DeleteByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if err := s.index.Clear(ctx, eventID); err != nil {
		s.log.Warn("failed to clear queue index after reset", zap.String("event_id", eventID.String()), zap.Error(err))
		s.metrics.FastStoreFailure("clear")
	}

	s.log.Info("queue reset", zap.String("event_id", eventID.String()), zap.Int64("deleted", deleted))
	return deleted, nil
}
