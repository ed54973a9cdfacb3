package domain

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketDraft  TicketStatus = "DRAFT"
	TicketPaid   TicketStatus = "PAID"
	TicketIssued TicketStatus = "ISSUED"
	TicketFailed TicketStatus = "FAILED"
	TicketUsed   TicketStatus = "USED"
)

type Ticket struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	EventID   uuid.UUID
	SeatID    *uuid.UUID
	Status    TicketStatus
	IssuedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewDraftTicket(ownerID, eventID, seatID uuid.UUID, now time.Time) *Ticket {
	return &Ticket{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		EventID:   eventID,
		SeatID:    &seatID,
		Status:    TicketDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (t *Ticket) IsOwnedBy(userID uuid.UUID) bool {
	return t.OwnerID == userID
}

// IsActive reports whether the ticket still holds its seat.
func (t *Ticket) IsActive() bool {
	return t.Status == TicketDraft || t.Status == TicketPaid
}

func (t *Ticket) MarkPaid(now time.Time) error {
	if t.Status != TicketDraft {
		return ErrInvalidTicketState
	}
	t.Status = TicketPaid
	t.UpdatedAt = now
	return nil
}

func (t *Ticket) Issue(now time.Time) error {
	if t.Status != TicketPaid {
		return ErrInvalidTicketState
	}
	t.Status = TicketIssued
	t.IssuedAt = &now
	t.UpdatedAt = now
	return nil
}

func (t *Ticket) Fail(now time.Time) error {
	if !t.IsActive() {
		return ErrInvalidTicketState
	}
	t.Status = TicketFailed
	t.UpdatedAt = now
	return nil
}
