package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports"
)

// QueueReconciler rebuilds the fast index from queue_entries.
type QueueReconciler struct {
	events  ports.EventRepository
	entries ports.QueueEntryRepository
	index   ports.QueueIndex
	options
}

func NewQueueReconciler(events ports.EventRepository, entries ports.QueueEntryRepository, index ports.QueueIndex, opts ...Option) *QueueReconciler {
	return &QueueReconciler{
		events:  events,
		entries: entries,
		index:   index,
		options: buildOptions("queue_reconciler", opts),
	}
}

// Reconcile unconditionally replaces the event's index with the durable state.
func (r *QueueReconciler) Reconcile(ctx context.Context, eventID uuid.UUID) error {
	waiting, err := r.entries.ListByStatus(ctx, eventID, domain.QueueWaiting)
	if err != nil {
		return err
	}
	entered, err := r.entries.ListByStatus(ctx, eventID, domain.QueueEntered)
	if err != nil {
		return err
	}

	ranked := make([]domain.RankedUser, len(waiting))
	for i, e := range waiting {
		ranked[i] = domain.RankedUser{UserID: e.UserID, Rank: e.Rank}
	}
	enteredIDs := make([]uuid.UUID, len(entered))
	for i, e := range entered {
		enteredIDs[i] = e.UserID
	}

	if err := r.index.Rebuild(ctx, eventID, ranked, enteredIDs); err != nil {
		return err
	}

	r.log.Info("queue index rebuilt",
		zap.String("event_id", eventID.String()),
		zap.Int("waiting", len(ranked)),
		zap.Int("entered", len(enteredIDs)),
	)
	return nil
}

// ReconcileActive backfills the index of live queues whose waiting or entered
// projection is gone while durable rows still need it, e.g. after a cache
// flush or an expired waiting key. Fully indexed queues are left alone.
func (r *QueueReconciler) ReconcileActive(ctx context.Context) (int, error) {
	var active []domain.Event
	for _, status := range []domain.EventStatus{domain.EventQueueReady, domain.EventOpen} {
		events, err := r.events.FindByStatus(ctx, status)
		if err != nil {
			return 0, fmt.Errorf("find %s events: %w", status, err)
		}
		active = append(active, events...)
	}

	rebuilt := 0
	for _, event := range active {
		if ctx.Err() != nil {
			return rebuilt, ctx.Err()
		}

		missing, err := r.indexMissing(ctx, event.ID)
		if err != nil {
			r.log.Warn("cannot inspect queue index", zap.String("event_id", event.ID.String()), zap.Error(err))
			continue
		}
		if !missing {
			continue
		}

		if err := r.Reconcile(ctx, event.ID); err != nil {
			r.log.Error("queue reconcile failed", zap.String("event_id", event.ID.String()), zap.Error(err))
			continue
		}
		rebuilt++
	}

	return rebuilt, nil
}

func (r *QueueReconciler) indexMissing(ctx context.Context, eventID uuid.UUID) (bool, error) {
	waiting, err := r.index.WaitingCount(ctx, eventID)
	if err != nil {
		return false, err
	}
	entered, err := r.index.EnteredCount(ctx, eventID)
	if err != nil {
		return false, err
	}
	if waiting > 0 && entered > 0 {
		return false, nil
	}

	counts, err := r.entries.CountByStatus(ctx, eventID)
	if err != nil {
		return false, err
	}

	lostWaiting := waiting == 0 && counts[domain.QueueWaiting] > 0
	lostEntered := entered == 0 && counts[domain.QueueEntered] > 0
	return lostWaiting || lostEntered, nil
}
