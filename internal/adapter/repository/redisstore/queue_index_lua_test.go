package redisstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
)

// setupScriptedIndex runs the index against an in-process Redis that
// executes the Lua scripts.
func setupScriptedIndex(t *testing.T) (*QueueIndex, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewQueueIndex(client, time.Hour), mr
}

func rankedUsers(n int) []domain.RankedUser {
	users := make([]domain.RankedUser, n)
	for i := range users {
		users[i] = domain.RankedUser{UserID: uuid.New(), Rank: int64(i + 1)}
	}
	return users
}

func TestClaimWaiting_PopsLowestRanksFirst(t *testing.T) {
	idx, mr := setupScriptedIndex(t)
	ctx := context.Background()
	eventID := uuid.New()

	users := rankedUsers(5)
	shuffled := []domain.RankedUser{users[4], users[0], users[3], users[1], users[2]}
	require.NoError(t, idx.AddWaiting(ctx, eventID, shuffled))

	claimed, err := idx.ClaimWaiting(ctx, eventID, 2, 100)

	require.NoError(t, err)
	assert.Equal(t, users[:2], claimed)

	entered, err := mr.SMembers(enteredKey(eventID))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{users[0].UserID.String(), users[1].UserID.String()}, entered)

	waiting, err := idx.WaitingCount(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), waiting)

	count, err := mr.Get(enteredCountKey(eventID))
	require.NoError(t, err)
	assert.Equal(t, "2", count)
}

func TestClaimWaiting_OverlappingClaimsStayWithinCapacity(t *testing.T) {
	idx, mr := setupScriptedIndex(t)
	ctx := context.Background()
	eventID := uuid.New()
	const capacity = 50

	require.NoError(t, idx.AddWaiting(ctx, eventID, rankedUsers(200)))

	var (
		mu      sync.Mutex
		claimed []domain.RankedUser
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := idx.ClaimWaiting(ctx, eventID, 30, capacity)
			assert.NoError(t, err)
			mu.Lock()
			claimed = append(claimed, got...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, claimed, capacity)

	seen := make(map[uuid.UUID]bool, len(claimed))
	for _, u := range claimed {
		assert.False(t, seen[u.UserID], "user claimed twice")
		seen[u.UserID] = true
		assert.LessOrEqual(t, u.Rank, int64(capacity))
	}

	entered, err := idx.EnteredCount(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(capacity), entered)

	members, err := mr.SMembers(enteredKey(eventID))
	require.NoError(t, err)
	assert.Len(t, members, capacity)
}

func TestClaimWaiting_FullRoomClaimsNothing(t *testing.T) {
	idx, mr := setupScriptedIndex(t)
	ctx := context.Background()
	eventID := uuid.New()

	_, err := mr.SetAdd(enteredKey(eventID), uuid.NewString(), uuid.NewString(), uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, idx.AddWaiting(ctx, eventID, rankedUsers(4)))

	claimed, err := idx.ClaimWaiting(ctx, eventID, 10, 3)

	require.NoError(t, err)
	assert.Empty(t, claimed)

	waiting, err := idx.WaitingCount(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), waiting)
}

func TestClaimWaiting_RefreshesWaitingExpiry(t *testing.T) {
	idx, mr := setupScriptedIndex(t)
	ctx := context.Background()
	eventID := uuid.New()

	require.NoError(t, idx.AddWaiting(ctx, eventID, rankedUsers(3)))
	mr.FastForward(50 * time.Minute)
	require.Equal(t, 10*time.Minute, mr.TTL(waitingKey(eventID)))

	_, err := idx.ClaimWaiting(ctx, eventID, 1, 100)

	require.NoError(t, err)
	assert.Equal(t, time.Hour, mr.TTL(waitingKey(eventID)))
}

func TestReleaseClaim_RequeueRestoresRank(t *testing.T) {
	idx, mr := setupScriptedIndex(t)
	ctx := context.Background()
	eventID := uuid.New()

	users := rankedUsers(3)
	require.NoError(t, idx.AddWaiting(ctx, eventID, users))

	claimed, err := idx.ClaimWaiting(ctx, eventID, 1, 100)
	require.NoError(t, err)
	require.Equal(t, users[:1], claimed)

	require.NoError(t, idx.ReleaseClaim(ctx, eventID, claimed[0], true))

	score, err := mr.ZScore(waitingKey(eventID), users[0].UserID.String())
	require.NoError(t, err)
	assert.Equal(t, float64(1), score)

	ahead, total, found, err := idx.WaitingPosition(ctx, eventID, users[0].UserID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(0), ahead)
	assert.Equal(t, int64(3), total)

	entered, err := idx.IsEntered(ctx, eventID, users[0].UserID)
	require.NoError(t, err)
	assert.False(t, entered)

	count, err := mr.Get(enteredCountKey(eventID))
	require.NoError(t, err)
	assert.Equal(t, "0", count)
}

func TestReleaseClaim_DropWithoutRequeue(t *testing.T) {
	idx, _ := setupScriptedIndex(t)
	ctx := context.Background()
	eventID := uuid.New()

	users := rankedUsers(2)
	require.NoError(t, idx.AddWaiting(ctx, eventID, users))

	claimed, err := idx.ClaimWaiting(ctx, eventID, 1, 100)
	require.NoError(t, err)

	require.NoError(t, idx.ReleaseClaim(ctx, eventID, claimed[0], false))

	_, _, found, err := idx.WaitingPosition(ctx, eventID, users[0].UserID)
	require.NoError(t, err)
	assert.False(t, found)

	entered, err := idx.EnteredCount(ctx, eventID)
	require.NoError(t, err)
	assert.Zero(t, entered)
}

func TestMarkEntered_AfterClaimCountsOnce(t *testing.T) {
	idx, mr := setupScriptedIndex(t)
	ctx := context.Background()
	eventID := uuid.New()

	users := rankedUsers(2)
	require.NoError(t, idx.AddWaiting(ctx, eventID, users))

	claimed, err := idx.ClaimWaiting(ctx, eventID, 1, 100)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	require.NoError(t, idx.MarkEntered(ctx, eventID, claimed[0].UserID))

	count, err := mr.Get(enteredCountKey(eventID))
	require.NoError(t, err)
	assert.Equal(t, "1", count)

	require.NoError(t, idx.MarkEntered(ctx, eventID, users[1].UserID))

	count, err = mr.Get(enteredCountKey(eventID))
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	waiting, err := idx.WaitingCount(ctx, eventID)
	require.NoError(t, err)
	assert.Zero(t, waiting)
}

func TestRequeue_PutsUserBackAtNewRank(t *testing.T) {
	idx, mr := setupScriptedIndex(t)
	ctx := context.Background()
	eventID := uuid.New()

	users := rankedUsers(3)
	require.NoError(t, idx.AddWaiting(ctx, eventID, users))
	claimed, err := idx.ClaimWaiting(ctx, eventID, 1, 100)
	require.NoError(t, err)

	require.NoError(t, idx.Requeue(ctx, eventID, domain.RankedUser{UserID: claimed[0].UserID, Rank: 4}))

	members, err := mr.ZMembers(waitingKey(eventID))
	require.NoError(t, err)
	assert.Equal(t, []string{users[1].UserID.String(), users[2].UserID.String(), users[0].UserID.String()}, members)

	entered, err := idx.IsEntered(ctx, eventID, claimed[0].UserID)
	require.NoError(t, err)
	assert.False(t, entered)
}
