package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/flashsale_ticket/internal/core/services"
)

// commitTx runs fn directly and records whether the last run committed.
type commitTx struct {
	mu        sync.Mutex
	committed bool
}

func (c *commitTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	c.committed = false
	c.mu.Unlock()

	if err := fn(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.committed = true
	c.mu.Unlock()
	return nil
}

func (c *commitTx) isCommitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committed
}

type sentNotification struct {
	domain.Notification
	afterCommit bool
}

// recordingPublisher keeps every notification and whether the transaction
// had committed when it went out.
type recordingPublisher struct {
	tx *commitTx

	mu   sync.Mutex
	sent []sentNotification
}

func (p *recordingPublisher) Publish(_ context.Context, n domain.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentNotification{Notification: n, afterCommit: p.tx.isCommitted()})
	return nil
}

func (p *recordingPublisher) notifications() []sentNotification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]sentNotification(nil), p.sent...)
}

type ticketFlow struct {
	svc       *services.TicketService
	seats     *memSeats
	tickets   *memTickets
	users     *mocks.UserRepository
	events    *mocks.EventRepository
	members   fakeMembership
	publisher *recordingPublisher
}

func newTicketFlow(t *testing.T, seats *memSeats, tickets *memTickets) *ticketFlow {
	tx := &commitTx{}
	f := &ticketFlow{
		seats:     seats,
		tickets:   tickets,
		users:     mocks.NewUserRepository(t),
		events:    mocks.NewEventRepository(t),
		members:   fakeMembership{},
		publisher: &recordingPublisher{tx: tx},
	}
	seatSvc := services.NewSeatService(f.events, seats, f.members, f.publisher, fixedClock())
	f.svc = services.NewTicketService(tx, tickets, seats, f.events, f.users, seatSvc, f.members, &stubCompleter{},
		services.TicketSettings{DraftTTL: 10 * time.Minute, DraftSweepLimit: 100},
		fixedClock(),
	)
	return f
}

func TestSelectSeat_RolledBackDraftSendsNoSeatUpdate(t *testing.T) {
	eventID, userID := uuid.New(), uuid.New()
	seat := availableSeat(eventID, "C3", domain.GradeS)
	f := newTicketFlow(t, newMemSeats(seat), newMemTickets())
	f.members[userID] = true
	f.users.On("GetByID", mock.Anything, userID).Return(nil, domain.ErrUserNotFound)

	_, err := f.svc.SelectSeat(context.Background(), eventID, seat.ID, userID)

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, f.publisher.notifications())
}

func TestSelectSeat_SeatUpdateFollowsCommit(t *testing.T) {
	eventID, userID := uuid.New(), uuid.New()
	seat := availableSeat(eventID, "C4", domain.GradeS)
	f := newTicketFlow(t, newMemSeats(seat), newMemTickets())
	f.members[userID] = true
	f.users.On("GetByID", mock.Anything, userID).Return(&domain.User{ID: userID}, nil)
	f.events.On("GetByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID, Status: domain.EventOpen}, nil)

	ticket, err := f.svc.SelectSeat(context.Background(), eventID, seat.ID, userID)

	require.NoError(t, err)
	assert.Equal(t, domain.TicketDraft, f.tickets.get(ticket.ID).Status)

	sent := f.publisher.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, domain.NotifySeatStatus, sent[0].Type)
	assert.Equal(t, domain.SeatReserved, sent[0].Payload["status"])
	assert.True(t, sent[0].afterCommit)
}

func TestFailPayment_SeatSoldByConcurrentConfirm(t *testing.T) {
	eventID, userID := uuid.New(), uuid.New()
	seat := availableSeat(eventID, "D1", domain.GradeR)
	seat.Status = domain.SeatSold
	seat.Version = 2
	draft := domain.NewDraftTicket(userID, eventID, seat.ID, testNow.Add(-time.Hour))
	f := newTicketFlow(t, newMemSeats(seat), newMemTickets(*draft))

	_, err := f.svc.FailPayment(context.Background(), draft.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTicketState)
	assert.Equal(t, domain.TicketDraft, f.tickets.get(draft.ID).Status)
	assert.Equal(t, domain.SeatSold, f.seats.get(seat.ID).Status)
	assert.Zero(t, f.seats.writes)
	assert.Empty(t, f.publisher.notifications())
}

func TestFailPayment_ReleasesHeldSeat(t *testing.T) {
	eventID, userID := uuid.New(), uuid.New()
	seat := availableSeat(eventID, "D2", domain.GradeR)
	seat.Status = domain.SeatReserved
	seat.Version = 1
	draft := domain.NewDraftTicket(userID, eventID, seat.ID, testNow.Add(-time.Hour))
	f := newTicketFlow(t, newMemSeats(seat), newMemTickets(*draft))

	_, err := f.svc.FailPayment(context.Background(), draft.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.TicketFailed, f.tickets.get(draft.ID).Status)
	assert.Equal(t, domain.SeatAvailable, f.seats.get(seat.ID).Status)
	assert.Equal(t, 2, f.seats.get(seat.ID).Version)

	sent := f.publisher.notifications()
	require.Len(t, sent, 1)
	assert.Equal(t, domain.SeatAvailable, sent[0].Payload["status"])
	assert.True(t, sent[0].afterCommit)
}

func TestConfirmPayment_IssuedTicketCannotBeFailedAfterwards(t *testing.T) {
	eventID, userID := uuid.New(), uuid.New()
	seat := availableSeat(eventID, "D3", domain.GradeR)
	seat.Status = domain.SeatReserved
	seat.Version = 1
	draft := domain.NewDraftTicket(userID, eventID, seat.ID, testNow.Add(-time.Minute))
	f := newTicketFlow(t, newMemSeats(seat), newMemTickets(*draft))

	_, err := f.svc.ConfirmPayment(context.Background(), draft.ID, userID)
	require.NoError(t, err)

	_, err = f.svc.FailPayment(context.Background(), draft.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidTicketState)
	assert.Equal(t, domain.TicketIssued, f.tickets.get(draft.ID).Status)
	assert.Equal(t, domain.SeatSold, f.seats.get(seat.ID).Status)
}
