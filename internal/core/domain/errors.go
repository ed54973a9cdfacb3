package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindStateConflict       ErrorKind = "STATE_CONFLICT"
	KindConcurrencyConflict ErrorKind = "CONCURRENCY_CONFLICT"
	KindCapacityOrInput     ErrorKind = "CAPACITY_OR_INPUT"
	KindForbidden           ErrorKind = "FORBIDDEN"
	KindExternalStore       ErrorKind = "EXTERNAL_STORE_FAILURE"
)

// Error is a typed failure with a stable code that callers can switch on.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(kind ErrorKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

var (
	ErrEventNotFound      = newError(KindNotFound, "NOT_FOUND_EVENT", "event not found")
	ErrQueueEntryNotFound = newError(KindNotFound, "NOT_FOUND_QUEUE_ENTRY", "queue entry not found")
	ErrSeatNotFound       = newError(KindNotFound, "NOT_FOUND_SEAT", "seat not found")
	ErrTicketNotFound     = newError(KindNotFound, "TICKET_NOT_FOUND", "ticket not found")
	ErrUserNotFound       = newError(KindNotFound, "NOT_FOUND_USER", "user not found")

	ErrAlreadyEntered          = newError(KindStateConflict, "ALREADY_ENTERED", "user already entered")
	ErrAlreadyExpired          = newError(KindStateConflict, "ALREADY_EXPIRED", "queue entry already expired")
	ErrAlreadyCompleted        = newError(KindStateConflict, "ALREADY_COMPLETED", "queue entry already completed")
	ErrNotEnteredStatus        = newError(KindStateConflict, "NOT_ENTERED_STATUS", "queue entry is not in ENTERED status")
	ErrNotInQueue              = newError(KindStateConflict, "NOT_IN_QUEUE", "user has not been admitted")
	ErrInvalidEventStatus      = newError(KindStateConflict, "INVALID_EVENT_STATUS", "event status does not allow this operation")
	ErrInvalidEventTransition  = newError(KindStateConflict, "INVALID_EVENT_TRANSITION", "event status transition not allowed")
	ErrSeatAlreadyReserved     = newError(KindStateConflict, "SEAT_ALREADY_RESERVED", "seat already reserved")
	ErrSeatAlreadySold         = newError(KindStateConflict, "SEAT_ALREADY_SOLD", "seat already sold")
	ErrSeatStatusTransition    = newError(KindStateConflict, "SEAT_STATUS_TRANSITION", "seat status transition not allowed")
	ErrSeatNotReserved         = newError(KindStateConflict, "SEAT_NOT_RESERVED", "seat is not reserved")
	ErrSeatAlreadySelected     = newError(KindStateConflict, "SEAT_ALREADY_SELECTED", "user already holds a seat for this event")
	ErrTicketAlreadyInProgress = newError(KindStateConflict, "TICKET_ALREADY_IN_PROGRESS", "seat already has an active ticket")
	ErrInvalidTicketState      = newError(KindStateConflict, "INVALID_TICKET_STATE", "ticket status does not allow this operation")

	ErrSeatConcurrencyFailure = newError(KindConcurrencyConflict, "SEAT_CONCURRENCY_FAILURE", "seat was modified concurrently")

	ErrEmptyInput           = newError(KindCapacityOrInput, "EMPTY_INPUT", "candidate list is empty")
	ErrQueueAlreadyExists   = newError(KindCapacityOrInput, "QUEUE_ALREADY_EXISTS", "queue already exists for event")
	ErrInvalidCandidateList = newError(KindCapacityOrInput, "INVALID_CANDIDATE_LIST", "candidate list does not match registered users")

	ErrUnauthorizedTicketAccess = newError(KindForbidden, "UNAUTHORIZED_TICKET_ACCESS", "ticket belongs to another user")

	ErrExternalStore = newError(KindExternalStore, "EXTERNAL_STORE_FAILURE", "fast store unavailable")
)

// KindOf returns the kind of the first domain error in err's chain, or "" when
// err carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// CodeOf returns the stable code of the first domain error in err's chain.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsConflict(err error) bool {
	k := KindOf(err)
	return k == KindStateConflict || k == KindConcurrencyConflict
}

func IsConcurrencyConflict(err error) bool {
	return KindOf(err) == KindConcurrencyConflict
}

func IsInvalidInput(err error) bool {
	return KindOf(err) == KindCapacityOrInput
}

func IsExternalStore(err error) bool {
	return KindOf(err) == KindExternalStore
}
