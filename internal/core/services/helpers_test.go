package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/flashsale_ticket/internal/core/services"
	"github.com/srgjo27/flashsale_ticket/internal/platform/clock"
)

var testNow = time.Date(2026, 5, 20, 19, 0, 0, 0, time.UTC)

func fixedClock() services.Option {
	return services.WithClock(clock.NewFixed(testNow))
}

// passthroughTx makes the mocked transactor run fn directly.
func passthroughTx(tx *mocks.Transactor) {
	tx.On("WithinTx", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }).
		Maybe()
}

type entryKey struct{ event, user uuid.UUID }

// memEntries is an in-memory queue table with a real status compare-and-set.
type memEntries struct {
	ports.QueueEntryRepository

	mu   sync.Mutex
	rows map[entryKey]domain.QueueEntry
}

func newMemEntries(entries ...domain.QueueEntry) *memEntries {
	m := &memEntries{rows: make(map[entryKey]domain.QueueEntry)}
	for _, e := range entries {
		m.rows[entryKey{e.EventID, e.UserID}] = e
	}
	return m
}

func (m *memEntries) GetByEventAndUser(_ context.Context, eventID, userID uuid.UUID) (*domain.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[entryKey{eventID, userID}]
	if !ok {
		return nil, domain.ErrQueueEntryNotFound
	}
	return &e, nil
}

func (m *memEntries) Transition(_ context.Context, entry *domain.QueueEntry, from domain.QueueStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := entryKey{entry.EventID, entry.UserID}
	if m.rows[k].Status != from {
		return false, nil
	}
	m.rows[k] = *entry
	return true, nil
}

func (m *memEntries) get(eventID, userID uuid.UUID) domain.QueueEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[entryKey{eventID, userID}]
}

// memSeats is an in-memory seat table with a real version compare-and-set.
type memSeats struct {
	ports.SeatRepository

	mu     sync.Mutex
	rows   map[uuid.UUID]domain.Seat
	writes int
}

func newMemSeats(seats ...domain.Seat) *memSeats {
	m := &memSeats{rows: make(map[uuid.UUID]domain.Seat)}
	for _, s := range seats {
		m.rows[s.ID] = s
	}
	return m
}

func (m *memSeats) GetByID(_ context.Context, seatID uuid.UUID) (*domain.Seat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[seatID]
	if !ok {
		return nil, domain.ErrSeatNotFound
	}
	return &s, nil
}

func (m *memSeats) UpdateStatus(_ context.Context, seat *domain.Seat, expectedVersion int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[seat.ID]
	if !ok {
		return domain.ErrSeatNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrSeatConcurrencyFailure
	}
	stored.Status = seat.Status
	stored.Version++
	m.rows[seat.ID] = stored
	m.writes++
	return nil
}

func (m *memSeats) get(seatID uuid.UUID) domain.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[seatID]
}

// quietPublisher accepts any notification.
func quietPublisher(t mockT) *mocks.Publisher {
	p := mocks.NewPublisher(t)
	p.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	return p
}

type mockT interface {
	mock.TestingT
	Cleanup(func())
}

// memTickets is an in-memory ticket table with a real status compare-and-set.
type memTickets struct {
	ports.TicketRepository

	mu   sync.Mutex
	rows map[uuid.UUID]domain.Ticket
}

func newMemTickets(tickets ...domain.Ticket) *memTickets {
	m := &memTickets{rows: make(map[uuid.UUID]domain.Ticket)}
	for _, t := range tickets {
		m.rows[t.ID] = t
	}
	return m
}

func (m *memTickets) Create(_ context.Context, t *domain.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[t.ID] = *t
	return nil
}

func (m *memTickets) GetByID(_ context.Context, ticketID uuid.UUID) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[ticketID]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return &t, nil
}

func (m *memTickets) FindActiveBySeat(_ context.Context, seatID uuid.UUID) (*domain.Ticket, error) {
	return m.findActive(func(t domain.Ticket) bool { return t.SeatID != nil && *t.SeatID == seatID })
}

func (m *memTickets) FindActiveByUserAndEvent(_ context.Context, userID, eventID uuid.UUID) (*domain.Ticket, error) {
	return m.findActive(func(t domain.Ticket) bool { return t.OwnerID == userID && t.EventID == eventID })
}

func (m *memTickets) findActive(match func(domain.Ticket) bool) (*domain.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.IsActive() && match(t) {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memTickets) UpdateStatus(_ context.Context, t *domain.Ticket, from domain.TicketStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows[t.ID].Status != from {
		return domain.ErrInvalidTicketState
	}
	m.rows[t.ID] = *t
	return nil
}

func (m *memTickets) get(ticketID uuid.UUID) domain.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[ticketID]
}
