package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventReady      EventStatus = "READY"
	EventPreOpen    EventStatus = "PRE_OPEN"
	EventPreClosed  EventStatus = "PRE_CLOSED"
	EventQueueReady EventStatus = "QUEUE_READY"
	EventOpen       EventStatus = "OPEN"
	EventClosed     EventStatus = "CLOSED"
)

var eventStatusOrder = map[EventStatus]int{
	EventReady:      0,
	EventPreOpen:    1,
	EventPreClosed:  2,
	EventQueueReady: 3,
	EventOpen:       4,
	EventClosed:     5,
}

func (s EventStatus) Valid() bool {
	_, ok := eventStatusOrder[s]
	return ok
}

// Precedes reports whether s comes strictly before other in the sale lifecycle.
func (s EventStatus) Precedes(other EventStatus) bool {
	return eventStatusOrder[s] < eventStatusOrder[other]
}

// CanAdvanceTo allows only the immediate successor.
func (s EventStatus) CanAdvanceTo(next EventStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return eventStatusOrder[next] == eventStatusOrder[s]+1
}

type Event struct {
	ID              uuid.UUID
	Title           string
	Status          EventStatus
	PreOpenAt       time.Time
	PreCloseAt      time.Time
	TicketOpenAt    time.Time
	TicketCloseAt   time.Time
	EventDate       time.Time
	MaxTicketAmount int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e *Event) AdvanceTo(next EventStatus) error {
	if !e.Status.CanAdvanceTo(next) {
		return ErrInvalidEventTransition
	}
	e.Status = next
	return nil
}

// LifecycleTrigger names the timestamp that drives a time-based transition.
type LifecycleTrigger string

const (
	TriggerPreOpenAt     LifecycleTrigger = "pre_open_at"
	TriggerPreCloseAt    LifecycleTrigger = "pre_close_at"
	TriggerTicketOpenAt  LifecycleTrigger = "ticket_open_at"
	TriggerTicketCloseAt LifecycleTrigger = "ticket_close_at"
)

type LifecycleRule struct {
	From    EventStatus
	To      EventStatus
	Trigger LifecycleTrigger
}

// LifecycleRules lists the time-driven transitions. PRE_CLOSED -> QUEUE_READY
// is absent: only a queue shuffle performs it.
var LifecycleRules = []LifecycleRule{
	{From: EventReady, To: EventPreOpen, Trigger: TriggerPreOpenAt},
	{From: EventPreOpen, To: EventPreClosed, Trigger: TriggerPreCloseAt},
	{From: EventQueueReady, To: EventOpen, Trigger: TriggerTicketOpenAt},
	{From: EventOpen, To: EventClosed, Trigger: TriggerTicketCloseAt},
}

func (r LifecycleRule) String() string {
	return string(r.From) + "->" + string(r.To)
}

// TriggerTime returns the event timestamp the rule compares against now.
func (r LifecycleRule) TriggerTime(e *Event) time.Time {
	switch r.Trigger {
	case TriggerPreOpenAt:
		return e.PreOpenAt
	case TriggerPreCloseAt:
		return e.PreCloseAt
	case TriggerTicketOpenAt:
		return e.TicketOpenAt
	case TriggerTicketCloseAt:
		return e.TicketCloseAt
	}
	return time.Time{}
}
