package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/flashsale_ticket/internal/core/services"
)

func newReadService(t *testing.T) (*services.QueueReadService, *mocks.QueueEntryRepository, *mocks.QueueIndex) {
	entries := mocks.NewQueueEntryRepository(t)
	index := mocks.NewQueueIndex(t)
	return services.NewQueueReadService(entries, index), entries, index
}

func TestGetQueueStatus_FromFastIndex(t *testing.T) {
	svc, entries, index := newReadService(t)
	eventID, userID := uuid.New(), uuid.New()

	entries.On("GetByEventAndUser", mock.Anything, eventID, userID).Return(waitingEntry(eventID, userID, 30), nil)
	index.On("WaitingPosition", mock.Anything, eventID, userID).Return(int64(9), int64(100), true, nil)

	view, err := svc.GetQueueStatus(context.Background(), eventID, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(9), view.WaitingAhead)
	assert.Equal(t, int64(18), view.EstimatedWaitMinutes)
	assert.Equal(t, 91, view.Progress)
	entries.AssertNotCalled(t, "CountWaitingAhead", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetQueueStatus_FallsBackToDatabase(t *testing.T) {
	svc, entries, index := newReadService(t)
	eventID, userID := uuid.New(), uuid.New()

	entries.On("GetByEventAndUser", mock.Anything, eventID, userID).Return(waitingEntry(eventID, userID, 30), nil)
	index.On("WaitingPosition", mock.Anything, eventID, userID).Return(int64(0), int64(0), false, domain.ErrExternalStore)
	entries.On("CountWaitingAhead", mock.Anything, eventID, int64(30)).Return(int64(4), nil)
	entries.On("CountByStatus", mock.Anything, eventID).Return(map[domain.QueueStatus]int64{domain.QueueWaiting: 20, domain.QueueEntered: 7}, nil)

	view, err := svc.GetQueueStatus(context.Background(), eventID, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), view.WaitingAhead)
	assert.Equal(t, 80, view.Progress)
}

func TestGetQueueStatus_Entered(t *testing.T) {
	svc, entries, _ := newReadService(t)
	eventID, userID := uuid.New(), uuid.New()
	entry := enteredEntry(eventID, userID, 3)

	entries.On("GetByEventAndUser", mock.Anything, eventID, userID).Return(entry, nil)

	view, err := svc.GetQueueStatus(context.Background(), eventID, userID)

	require.NoError(t, err)
	assert.Equal(t, domain.QueueEntered, view.Status)
	assert.Equal(t, 100, view.Progress)
	assert.Equal(t, entry.ExpiredAt, view.ExpiredAt)
}

func TestIsUserEntered(t *testing.T) {
	eventID, userID := uuid.New(), uuid.New()

	t.Run("fast hit", func(t *testing.T) {
		svc, _, index := newReadService(t)
		index.On("IsEntered", mock.Anything, eventID, userID).Return(true, nil)

		ok, err := svc.IsUserEntered(context.Background(), eventID, userID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("fast miss confirmed by database", func(t *testing.T) {
		svc, entries, index := newReadService(t)
		index.On("IsEntered", mock.Anything, eventID, userID).Return(false, nil)
		entries.On("GetByEventAndUser", mock.Anything, eventID, userID).Return(enteredEntry(eventID, userID, 1), nil)

		ok, err := svc.IsUserEntered(context.Background(), eventID, userID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("store down and no entry", func(t *testing.T) {
		svc, entries, index := newReadService(t)
		index.On("IsEntered", mock.Anything, eventID, userID).Return(false, domain.ErrExternalStore)
		entries.On("GetByEventAndUser", mock.Anything, eventID, userID).Return(nil, domain.ErrQueueEntryNotFound)

		ok, err := svc.IsUserEntered(context.Background(), eventID, userID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestExistsInQueueAndStatistics(t *testing.T) {
	svc, entries, _ := newReadService(t)
	eventID, present, absent := uuid.New(), uuid.New(), uuid.New()

	entries.On("GetByEventAndUser", mock.Anything, eventID, present).Return(waitingEntry(eventID, present, 1), nil)
	entries.On("GetByEventAndUser", mock.Anything, eventID, absent).Return(nil, domain.ErrQueueEntryNotFound)
	entries.On("CountByStatus", mock.Anything, eventID).Return(map[domain.QueueStatus]int64{domain.QueueWaiting: 2, domain.QueueCompleted: 1}, nil)

	ok, err := svc.ExistsInQueue(context.Background(), eventID, present)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ExistsInQueue(context.Background(), eventID, absent)
	require.NoError(t, err)
	assert.False(t, ok)

	stats, err := svc.GetStatistics(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
}

func TestGetMyQueues(t *testing.T) {
	svc, entries, index := newReadService(t)
	userID := uuid.New()
	waiting := waitingEntry(uuid.New(), userID, 2)
	done := enteredEntry(uuid.New(), userID, 1)
	_ = done.Complete(testNow)

	entries.On("ListByUser", mock.Anything, userID).Return([]domain.QueueEntry{*waiting, *done}, nil)
	index.On("WaitingPosition", mock.Anything, waiting.EventID, userID).Return(int64(1), int64(2), true, nil)

	views, err := svc.GetMyQueues(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, domain.QueueWaiting, views[0].Status)
	assert.Equal(t, 50, views[0].Progress)
	assert.Equal(t, domain.QueueCompleted, views[1].Status)
}
