package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/core/ports/mocks"
	"github.com/srgjo27/flashsale_ticket/internal/core/services"
)

type shuffleDeps struct {
	tx      *mocks.Transactor
	events  *mocks.EventRepository
	entries *mocks.QueueEntryRepository
	users   *mocks.UserRepository
	preRegs *mocks.PreRegisterRepository
	index   *mocks.QueueIndex
}

func newShuffleService(t *testing.T, opts ...services.Option) (*services.QueueShuffleService, shuffleDeps) {
	d := shuffleDeps{
		tx:      mocks.NewTransactor(t),
		events:  mocks.NewEventRepository(t),
		entries: mocks.NewQueueEntryRepository(t),
		users:   mocks.NewUserRepository(t),
		preRegs: mocks.NewPreRegisterRepository(t),
		index:   mocks.NewQueueIndex(t),
	}
	passthroughTx(d.tx)
	svc := services.NewQueueShuffleService(d.tx, d.events, d.entries, d.users, d.preRegs, d.index,
		append([]services.Option{fixedClock()}, opts...)...)
	return svc, d
}

func TestShuffleQueue_Success(t *testing.T) {
	svc, d := newShuffleService(t)
	ctx := context.Background()
	eventID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	candidates := []uuid.UUID{a, b, c}

	var inserted []domain.QueueEntry
	var mirrored []domain.RankedUser

	d.users.On("CountExisting", mock.Anything, candidates).Return(3, nil)
	d.events.On("LockByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID, Status: domain.EventPreClosed}, nil)
	d.entries.On("ExistsByEvent", mock.Anything, eventID).Return(false, nil)
	d.entries.On("BulkInsert", mock.Anything, mock.AnythingOfType("[]domain.QueueEntry")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).([]domain.QueueEntry) }).
		Return(nil)
	d.index.On("AddWaiting", mock.Anything, eventID, mock.AnythingOfType("[]domain.RankedUser")).
		Run(func(args mock.Arguments) { mirrored = args.Get(2).([]domain.RankedUser) }).
		Return(nil)
	d.events.On("UpdateStatus", mock.Anything, eventID, domain.EventPreClosed, domain.EventQueueReady).Return(true, nil)

	err := svc.ShuffleQueue(ctx, eventID, candidates)

	require.NoError(t, err)
	require.Len(t, inserted, 3)

	users := make([]uuid.UUID, 0, 3)
	ranks := make([]int64, 0, 3)
	for i, e := range inserted {
		assert.Equal(t, domain.QueueWaiting, e.Status)
		assert.Equal(t, eventID, e.EventID)
		assert.Equal(t, testNow, e.CreatedAt)
		assert.Equal(t, domain.RankedUser{UserID: e.UserID, Rank: e.Rank}, mirrored[i], "index mirrors durable ranks")
		users = append(users, e.UserID)
		ranks = append(ranks, e.Rank)
	}
	assert.ElementsMatch(t, candidates, users)
	assert.Equal(t, []int64{1, 2, 3}, ranks)
}

func TestShuffleQueue_FromQueueReadyDoesNotAdvance(t *testing.T) {
	svc, d := newShuffleService(t)
	ctx := context.Background()
	eventID := uuid.New()
	candidates := []uuid.UUID{uuid.New()}

	d.users.On("CountExisting", mock.Anything, candidates).Return(1, nil)
	d.events.On("LockByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID, Status: domain.EventQueueReady}, nil)
	d.entries.On("ExistsByEvent", mock.Anything, eventID).Return(false, nil)
	d.entries.On("BulkInsert", mock.Anything, mock.Anything).Return(nil)
	d.index.On("AddWaiting", mock.Anything, eventID, mock.Anything).Return(nil)

	require.NoError(t, svc.ShuffleQueue(ctx, eventID, candidates))
	d.events.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestShuffleQueue_Fail_EmptyInput(t *testing.T) {
	svc, _ := newShuffleService(t)

	err := svc.ShuffleQueue(context.Background(), uuid.New(), nil)

	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestShuffleQueue_Fail_UnknownCandidate(t *testing.T) {
	svc, d := newShuffleService(t)
	ctx := context.Background()
	candidates := []uuid.UUID{uuid.New(), uuid.New()}

	d.users.On("CountExisting", mock.Anything, candidates).Return(1, nil)

	err := svc.ShuffleQueue(ctx, uuid.New(), candidates)

	assert.ErrorIs(t, err, domain.ErrInvalidCandidateList)
	d.tx.AssertNotCalled(t, "WithinTx", mock.Anything, mock.Anything)
}

func TestShuffleQueue_Fail_QueueAlreadyExists(t *testing.T) {
	svc, d := newShuffleService(t)
	ctx := context.Background()
	eventID := uuid.New()
	candidates := []uuid.UUID{uuid.New()}

	d.users.On("CountExisting", mock.Anything, candidates).Return(1, nil)
	d.events.On("LockByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID, Status: domain.EventQueueReady}, nil)
	d.entries.On("ExistsByEvent", mock.Anything, eventID).Return(true, nil)

	err := svc.ShuffleQueue(ctx, eventID, candidates)

	assert.ErrorIs(t, err, domain.ErrQueueAlreadyExists)
	d.entries.AssertNotCalled(t, "BulkInsert", mock.Anything, mock.Anything)
	d.index.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func TestShuffleQueue_Fail_WrongEventStatus(t *testing.T) {
	for _, status := range []domain.EventStatus{domain.EventPreOpen, domain.EventOpen, domain.EventClosed} {
		t.Run(string(status), func(t *testing.T) {
			svc, d := newShuffleService(t)
			eventID := uuid.New()
			candidates := []uuid.UUID{uuid.New()}

			d.users.On("CountExisting", mock.Anything, candidates).Return(1, nil)
			d.events.On("LockByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID, Status: status}, nil)
			d.entries.On("ExistsByEvent", mock.Anything, eventID).Return(false, nil)

			err := svc.ShuffleQueue(context.Background(), eventID, candidates)

			assert.ErrorIs(t, err, domain.ErrInvalidEventStatus)
			d.entries.AssertNotCalled(t, "BulkInsert", mock.Anything, mock.Anything)
		})
	}
}

func TestShuffleQueue_Fail_MirrorFailureRollsBack(t *testing.T) {
	svc, d := newShuffleService(t)
	ctx := context.Background()
	eventID := uuid.New()
	candidates := []uuid.UUID{uuid.New(), uuid.New()}

	d.users.On("CountExisting", mock.Anything, candidates).Return(2, nil)
	d.events.On("LockByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID, Status: domain.EventPreClosed}, nil)
	d.entries.On("ExistsByEvent", mock.Anything, eventID).Return(false, nil)
	d.entries.On("BulkInsert", mock.Anything, mock.Anything).Return(nil)
	d.index.On("AddWaiting", mock.Anything, eventID, mock.Anything).Return(errors.New("connection refused"))
	d.index.On("Clear", mock.Anything, eventID).Return(nil)

	err := svc.ShuffleQueue(ctx, eventID, candidates)

	assert.ErrorIs(t, err, domain.ErrExternalStore)
	assert.Equal(t, "EXTERNAL_STORE_FAILURE", domain.CodeOf(err))
	d.events.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAutoShuffle(t *testing.T) {
	svc, d := newShuffleService(t)
	ctx := context.Background()
	ready, done := uuid.New(), uuid.New()
	user := uuid.New()

	target := testNow.Add(10 * time.Minute)
	d.events.On("FindShuffleCandidates", mock.Anything, target.Add(-time.Minute), target.Add(time.Minute)).
		Return([]domain.Event{{ID: ready}, {ID: done}}, nil)

	d.preRegs.On("ListUserIDs", mock.Anything, ready).Return([]uuid.UUID{user}, nil)
	d.preRegs.On("ListUserIDs", mock.Anything, done).Return([]uuid.UUID{user}, nil)
	d.users.On("CountExisting", mock.Anything, []uuid.UUID{user}).Return(1, nil)

	d.events.On("LockByID", mock.Anything, ready).Return(&domain.Event{ID: ready, Status: domain.EventPreClosed}, nil)
	d.entries.On("ExistsByEvent", mock.Anything, ready).Return(false, nil)
	d.entries.On("BulkInsert", mock.Anything, mock.Anything).Return(nil)
	d.index.On("AddWaiting", mock.Anything, ready, mock.Anything).Return(nil)
	d.events.On("UpdateStatus", mock.Anything, ready, domain.EventPreClosed, domain.EventQueueReady).Return(true, nil)

	d.events.On("LockByID", mock.Anything, done).Return(&domain.Event{ID: done, Status: domain.EventPreClosed}, nil)
	d.entries.On("ExistsByEvent", mock.Anything, done).Return(true, nil)

	n, err := svc.AutoShuffle(ctx, 10*time.Minute, time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAutoShuffle_SkipsEventWithoutRegistrations(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	svc, d := newShuffleService(t, services.WithLogger(zap.New(core)))
	eventID := uuid.New()

	target := testNow.Add(10 * time.Minute)
	d.events.On("FindShuffleCandidates", mock.Anything, target.Add(-time.Minute), target.Add(time.Minute)).
		Return([]domain.Event{{ID: eventID}}, nil)
	d.preRegs.On("ListUserIDs", mock.Anything, eventID).Return([]uuid.UUID{}, nil)

	n, err := svc.AutoShuffle(context.Background(), 10*time.Minute, time.Minute)

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, logs.FilterMessage("auto shuffle skipped").FilterLevelExact(zap.WarnLevel).Len())
	assert.Zero(t, logs.FilterMessage("auto shuffle failed").Len())
}

func TestResetQueue(t *testing.T) {
	svc, d := newShuffleService(t)
	ctx := context.Background()
	eventID := uuid.New()

	d.events.On("GetByID", mock.Anything, eventID).Return(&domain.Event{ID: eventID, Status: domain.EventQueueReady}, nil)
	d.entries.On("DeleteByEvent", mock.Anything, eventID).Return(int64(42), nil)
	d.index.On("Clear", mock.Anything, eventID).Return(errors.New("redis down"))

	n, err := svc.ResetQueue(ctx, eventID)

	require.NoError(t, err, "a failed index clear is not fatal")
	assert.Equal(t, int64(42), n)
	d.events.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
