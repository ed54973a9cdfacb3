package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

func TestSeat_Reserve(t *testing.T) {
	s := &domain.Seat{Status: domain.SeatAvailable}
	assert.NoError(t, s.Reserve())
	assert.Equal(t, domain.SeatReserved, s.Status)

	assert.ErrorIs(t, s.Reserve(), domain.ErrSeatAlreadyReserved)

	sold := &domain.Seat{Status: domain.SeatSold}
	assert.ErrorIs(t, sold.Reserve(), domain.ErrSeatAlreadySold)
}

func TestSeat_ConfirmAndReleaseRequireReservation(t *testing.T) {
	for _, status := range []domain.SeatStatus{domain.SeatAvailable, domain.SeatSold} {
		s := &domain.Seat{Status: status}
		assert.ErrorIs(t, s.MarkSold(), domain.ErrSeatStatusTransition)
		assert.ErrorIs(t, s.MarkAvailable(), domain.ErrSeatStatusTransition)
		assert.Equal(t, status, s.Status)
	}

	s := &domain.Seat{Status: domain.SeatReserved}
	assert.NoError(t, s.MarkSold())
	assert.Equal(t, domain.SeatSold, s.Status)

	s = &domain.Seat{Status: domain.SeatReserved}
	assert.NoError(t, s.MarkAvailable())
	assert.True(t, s.IsAvailable())
}

func TestSeatGrade_Less(t *testing.T) {
	assert.True(t, domain.GradeVIP.Less(domain.GradeR))
	assert.True(t, domain.GradeS.Less(domain.GradeA))
	assert.False(t, domain.GradeA.Less(domain.GradeVIP))
	assert.False(t, domain.GradeR.Less(domain.GradeR))
}
