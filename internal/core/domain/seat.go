package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatReserved  SeatStatus = "RESERVED"
	SeatSold      SeatStatus = "SOLD"
)

type SeatGrade string

const (
	GradeVIP SeatGrade = "VIP"
	GradeR   SeatGrade = "R"
	GradeS   SeatGrade = "S"
	GradeA   SeatGrade = "A"
)

var gradeRank = map[SeatGrade]int{GradeVIP: 0, GradeR: 1, GradeS: 2, GradeA: 3}

// Less orders grades from the most to the least premium.
func (g SeatGrade) Less(other SeatGrade) bool {
	return gradeRank[g] < gradeRank[other]
}

type Seat struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	SeatCode  string
	Grade     SeatGrade
	Price     decimal.Decimal
	Status    SeatStatus
	Version   int
	UpdatedAt time.Time
}

func (s *Seat) IsAvailable() bool {
	return s.Status == SeatAvailable
}

func (s *Seat) Reserve() error {
	switch s.Status {
	case SeatAvailable:
		s.Status = SeatReserved
		return nil
	case SeatReserved:
		return ErrSeatAlreadyReserved
	default:
		return ErrSeatAlreadySold
	}
}

func (s *Seat) MarkSold() error {
	if s.Status != SeatReserved {
		return ErrSeatStatusTransition
	}
	s.Status = SeatSold
	return nil
}

func (s *Seat) MarkAvailable() error {
	if s.Status != SeatReserved {
		return ErrSeatStatusTransition
	}
	s.Status = SeatAvailable
	return nil
}
