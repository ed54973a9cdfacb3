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

type SeatAllocator interface {
	ReserveSeat(ctx context.Context, eventID, seatID, userID uuid.UUID) (*domain.Seat, error)
	MarkSeatAsSold(ctx context.Context, seatID uuid.UUID) (*domain.Seat, error)
	MarkSeatAsAvailable(ctx context.Context, seatID uuid.UUID) (*domain.Seat, error)
}

type QueueCompleter interface {
	CompletePayment(ctx context.Context, eventID, userID uuid.UUID) error
}

type TicketSettings struct {
	DraftTTL        time.Duration
	DraftSweepLimit int
}

// TicketService turns a held seat into an issued ticket, or rolls the hold
// back when payment fails.
type TicketService struct {
	tx         ports.Transactor
	tickets    ports.TicketRepository
	seats      ports.SeatRepository
	events     ports.EventRepository
	users      ports.UserRepository
	allocator  SeatAllocator
	membership QueueMembership
	completer  QueueCompleter
	settings   TicketSettings
	options
}

func NewTicketService(
	tx ports.Transactor,
	tickets ports.TicketRepository,
	seats ports.SeatRepository,
	events ports.EventRepository,
	users ports.UserRepository,
	allocator SeatAllocator,
	membership QueueMembership,
	completer QueueCompleter,
	settings TicketSettings,
	opts ...Option,
) *TicketService {
	return &TicketService{
		tx:         tx,
		tickets:    tickets,
		seats:      seats,
		events:     events,
		users:      users,
		allocator:  allocator,
		membership: membership,
		completer:  completer,
		settings:   settings,
		options:    buildOptions("ticket", opts),
	}
}

// SelectSeat is the admitted user's purchase entry point: one active ticket
// per user and event, seat hold and draft created together.
func (s *TicketService) SelectSeat(ctx context.Context, eventID, seatID, userID uuid.UUID) (ticket *domain.Ticket, err error) {
	ctx, span := telemetry.StartSpan(ctx, "ticket.select_seat",
		attribute.String("event_id", eventID.String()),
		attribute.String("seat_id", seatID.String()),
	)
	defer func() {
		telemetry.End(span, err)
		s.metrics.TicketOp("select_seat", err)
	}()

	entered, err := s.membership.IsUserEntered(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if !entered {
		return nil, domain.ErrNotInQueue
	}

	existing, err := s.tickets.FindActiveByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSeatAlreadySelected
	}

	err = inTx(ctx, s.tx, func(ctx context.Context) error {
		if _, err := s.allocator.ReserveSeat(ctx, eventID, seatID, userID); err != nil {
			return err
		}

		t, err := s.CreateDraftTicket(ctx, eventID, seatID, userID)
		if err != nil {
			return err
		}
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ticket, nil
}

// CreateDraftTicket opens a DRAFT for a seat the caller already reserved.
func (s *TicketService) CreateDraftTicket(ctx context.Context, eventID, seatID, userID uuid.UUID) (*domain.Ticket, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	seat, err := s.seats.GetByID(ctx, seatID)
	if err != nil {
		return nil, err
	}
	if seat.EventID != eventID {
		return nil, fmt.Errorf("%w: seat %s is not part of event %s", domain.ErrSeatNotFound, seatID, eventID)
	}
	if seat.Status != domain.SeatReserved {
		return nil, domain.ErrSeatNotReserved
	}

	active, err := s.tickets.FindActiveBySeat(ctx, seatID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, domain.ErrTicketAlreadyInProgress
	}

	ticket := domain.NewDraftTicket(userID, eventID, seatID, s.clock.Now())
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.log.Info("draft ticket created",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("seat_id", seatID.String()),
		zap.String("user_id", userID.String()),
	)

	return ticket, nil
}

// ConfirmPayment sells the seat and issues the ticket in one transaction,
// then closes the buyer's queue entry on a best-effort basis.
func (s *TicketService) ConfirmPayment(ctx context.Context, ticketID, userID uuid.UUID) (ticket *domain.Ticket, err error) {
	defer func() { s.metrics.TicketOp("confirm_payment", err) }()

	err = inTx(ctx, s.tx, func(ctx context.Context) error {
		t, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		if !t.IsOwnedBy(userID) {
			return domain.ErrUnauthorizedTicketAccess
		}

		from := t.Status
		now := s.clock.Now()
		switch t.Status {
		case domain.TicketDraft:
			if err := t.MarkPaid(now); err != nil {
				return err
			}
		case domain.TicketPaid:
		default:
			return fmt.Errorf("%w: ticket %s is %s", domain.ErrInvalidTicketState, t.ID, t.Status)
		}

		if t.SeatID == nil {
			return fmt.Errorf("%w: ticket %s has no seat", domain.ErrInvalidTicketState, t.ID)
		}

		if _, err := s.allocator.MarkSeatAsSold(ctx, *t.SeatID); err != nil {
			return err
		}

		if err := t.Issue(now); err != nil {
			return err
		}
		if err := s.tickets.UpdateStatus(ctx, t, from); err != nil {
			return err
		}

		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.completer.CompletePayment(ctx, ticket.EventID, ticket.OwnerID); err != nil {
		s.log.Warn("failed to complete queue entry after payment",
			zap.String("ticket_id", ticket.ID.String()),
			zap.Error(err),
		)
	}

	s.log.Info("ticket issued", zap.String("ticket_id", ticket.ID.String()))
	return ticket, nil
}

// FailPayment releases the seat, if any, and marks the ticket FAILED.
func (s *TicketService) FailPayment(ctx context.Context, ticketID uuid.UUID) (ticket *domain.Ticket, err error) {
	defer func() { s.metrics.TicketOp("fail_payment", err) }()

	err = inTx(ctx, s.tx, func(ctx context.Context) error {
		t, err := s.tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		if !t.IsActive() {
			return fmt.Errorf("%w: ticket %s is %s", domain.ErrInvalidTicketState, t.ID, t.Status)
		}

		if t.SeatID != nil {
			if err := s.releaseSeat(ctx, t); err != nil {
				return err
			}
		}

		from := t.Status
		if err := t.Fail(s.clock.Now()); err != nil {
			return err
		}
		if err := s.tickets.UpdateStatus(ctx, t, from); err != nil {
			return err
		}

		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ticket payment failed", zap.String("ticket_id", ticket.ID.String()))
	return ticket, nil
}

// releaseSeat returns the ticket's seat to sale. A seat that is already
// AVAILABLE is accepted; any other state means the seat moved on without this
// ticket, e.g. a concurrent confirm sold it, and the ticket must not fail.
func (s *TicketService) releaseSeat(ctx context.Context, t *domain.Ticket) error {
	_, err := s.allocator.MarkSeatAsAvailable(ctx, *t.SeatID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrSeatStatusTransition) {
		return err
	}

	seat, err := s.seats.GetByID(ctx, *t.SeatID)
	if err != nil {
		return err
	}
	if !seat.IsAvailable() {
		return fmt.Errorf("%w: ticket %s seat %s is %s", domain.ErrInvalidTicketState, t.ID, seat.ID, seat.Status)
	}

	s.log.Warn("seat already released while failing payment",
		zap.String("ticket_id", t.ID.String()),
		zap.String("seat_id", t.SeatID.String()),
	)
	return nil
}

// ExpireStaleDrafts fails drafts older than the draft TTL so their seats
// return to sale.
func (s *TicketService) ExpireStaleDrafts(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.settings.DraftTTL)

	drafts, err := s.tickets.ListStaleDrafts(ctx, cutoff, s.settings.DraftSweepLimit)
	if err != nil {
		return 0, fmt.Errorf("list stale drafts: %w", err)
	}

	failed := 0
	for _, d := range drafts {
		if ctx.Err() != nil {
			return failed, ctx.Err()
		}
		if _, err := s.FailPayment(ctx, d.ID); err != nil {
			s.log.Error("failed to expire draft ticket", zap.String("ticket_id", d.ID.String()), zap.Error(err))
			continue
		}
		failed++
	}

	if failed > 0 {
		s.log.Info("stale draft tickets expired", zap.Int("count", failed))
	}
	return failed, nil
}

func (s *TicketService) GetMyTickets(ctx context.Context, userID uuid.UUID) ([]domain.Ticket, error) {
	return s.tickets.ListByOwner(ctx, userID)
}

func (s *TicketService) GetTicketDetail(ctx context.Context, ticketID, userID uuid.UUID) (*domain.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !t.IsOwnedBy(userID) {
		return nil, domain.ErrUnauthorizedTicketAccess
	}
	return t, nil
}
