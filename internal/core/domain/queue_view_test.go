package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

func TestNewWaitingView(t *testing.T) {
	ev, u := uuid.New(), uuid.New()

	tests := []struct {
		name         string
		ahead, total int64
		wantEstimate int64
		wantProgress int
	}{
		{"empty waiting set", 0, 0, 1, 0},
		{"front of the line", 0, 50, 1, 99},
		{"middle", 25, 100, 50, 75},
		{"back", 99, 100, 198, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.NewWaitingView(ev, u, 42, tt.ahead, tt.total)

			assert.Equal(t, domain.QueueWaiting, v.Status)
			assert.Equal(t, int64(42), v.Rank)
			assert.Equal(t, tt.ahead, v.WaitingAhead)
			assert.Equal(t, tt.wantEstimate, v.EstimatedWaitMinutes)
			assert.Equal(t, tt.wantProgress, v.Progress)
		})
	}
}

func TestNewEntryView(t *testing.T) {
	entered := domain.NewWaitingEntry(uuid.New(), uuid.New(), 1, now)
	_ = entered.Enter(now, time.Minute)
	assert.Equal(t, 100, domain.NewEntryView(&entered).Progress)
	assert.Equal(t, entered.ExpiredAt, domain.NewEntryView(&entered).ExpiredAt)

	expired := domain.QueueEntry{Status: domain.QueueExpired}
	assert.Equal(t, 0, domain.NewEntryView(&expired).Progress)
}

func TestNewQueueStatistics(t *testing.T) {
	s := domain.NewQueueStatistics(uuid.New(), map[domain.QueueStatus]int64{
		domain.QueueWaiting: 10,
		domain.QueueEntered: 3,
		domain.QueueExpired: 2,
	})

	assert.Equal(t, int64(10), s.Waiting)
	assert.Equal(t, int64(0), s.Completed)
	assert.Equal(t, int64(15), s.Total)
}

func TestNotification_Channel(t *testing.T) {
	ev, u := uuid.New(), uuid.New()

	assert.Equal(t, "user-"+u.String(), domain.Notification{EventID: ev, UserID: u}.Channel())
	assert.Equal(t, "event-"+ev.String(), domain.Notification{EventID: ev}.Channel())
}
