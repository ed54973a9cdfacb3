package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports"
	"github.com/srgjo27/flashsale_ticket/internal/platform/telemetry"
)

// QueueMembership tells whether a user currently holds an admission slot.
type QueueMembership interface {
	IsUserEntered(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

// SeatService owns seat state. Every write is an optimistic version check;
// a lost race is reported as ErrSeatConcurrencyFailure and never retried here.
type SeatService struct {
	events    ports.EventRepository
	seats     ports.SeatRepository
	queue     QueueMembership
	publisher ports.Publisher
	options
}

func NewSeatService(
	events ports.EventRepository,
	seats ports.SeatRepository,
	queue QueueMembership,
	publisher ports.Publisher,
	opts ...Option,
) *SeatService {
	return &SeatService{
		events:    events,
		seats:     seats,
		queue:     queue,
		publisher: publisher,
		options:   buildOptions("seat", opts),
	}
}

func (s *SeatService) ReserveSeat(ctx context.Context, eventID, seatID, userID uuid.UUID) (seat *domain.Seat, err error) {
	ctx, span := telemetry.StartSpan(ctx, "seat.reserve",
		attribute.String("event_id", eventID.String()),
		attribute.String("seat_id", seatID.String()),
	)
	defer func() {
		telemetry.End(span, err)
		s.metrics.SeatOp("reserve", err)
	}()

	seat, err = s.seats.GetByID(ctx, seatID)
	if err != nil {
		return nil, err
	}
	if seat.EventID != eventID {
		return nil, fmt.Errorf("%w: seat %s is not part of event %s", domain.ErrSeatNotFound, seatID, eventID)
	}

	if err := s.write(ctx, seat, (*domain.Seat).Reserve); err != nil {
		return nil, err
	}

	s.log.Info("seat reserved",
		zap.String("event_id", eventID.String()),
		zap.String("seat_id", seatID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("version", seat.Version),
	)

	return seat, nil
}

// ConfirmPurchase finalizes a reserved seat as sold.
func (s *SeatService) ConfirmPurchase(ctx context.Context, seatID uuid.UUID) (*domain.Seat, error) {
	return s.MarkSeatAsSold(ctx, seatID)
}

func (s *SeatService) MarkSeatAsSold(ctx context.Context, seatID uuid.UUID) (seat *domain.Seat, err error) {
	defer func() { s.metrics.SeatOp("sell", err) }()
	return s.transition(ctx, seatID, (*domain.Seat).MarkSold)
}

// MarkSeatAsAvailable releases a reserved seat after a failed payment.
func (s *SeatService) MarkSeatAsAvailable(ctx context.Context, seatID uuid.UUID) (seat *domain.Seat, err error) {
	defer func() { s.metrics.SeatOp("release", err) }()
	return s.transition(ctx, seatID, (*domain.Seat).MarkAvailable)
}

func (s *SeatService) transition(ctx context.Context, seatID uuid.UUID, apply func(*domain.Seat) error) (*domain.Seat, error) {
	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		return nil, err
	}

	if err := s.write(ctx, seat, apply); err != nil {
		return nil, err
	}

	return seat, nil
}

// write applies a state change in memory and persists it against the version
// that was read. The status broadcast waits for the caller's transaction, if
// any, to commit.
func (s *SeatService) write(ctx context.Context, seat *domain.Seat, apply func(*domain.Seat) error) error {
	expected := seat.Version

	if err := apply(seat); err != nil {
		return err
	}

	if err := s.seats.UpdateStatus(ctx, seat, expected); err != nil {
		return err
	}
	seat.Version = expected + 1

	seatID := seat.ID.String()
	n := domain.Notification{
		Type:    domain.NotifySeatStatus,
		EventID: seat.EventID,
		Payload: map[string]any{
			"seat_id":   seatID,
			"seat_code": seat.SeatCode,
			"status":    seat.Status,
			"version":   seat.Version,
		},
		OccurredAt: s.clock.Now(),
	}
	onCommit(ctx, func(ctx context.Context) {
		if err := s.publisher.Publish(ctx, n); err != nil {
			s.log.Warn("failed to publish seat status", zap.String("seat_id", seatID), zap.Error(err))
		}
	})

	return nil
}

// ListSeats returns the event's seats, best grade first, to admitted users only.
func (s *SeatService) ListSeats(ctx context.Context, eventID, userID uuid.UUID) ([]domain.Seat, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	entered, err := s.queue.IsUserEntered(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !entered {
		return nil, domain.ErrNotInQueue
	}

	seats, err := s.seats.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(seats, func(i, j int) bool {
		if seats[i].Grade != seats[j].Grade {
			return seats[i].Grade.Less(seats[j].Grade)
		}
		return seats[i].SeatCode < seats[j].SeatCode
	})

	return seats, nil
}
