package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"

	"github.com/srgjo27/flashsale_ticket/internal/core/domain"
	"github.com/srgjo27/flashsale_ticket/internal/platform/telemetry"
)

const addWaitingChunk = 1000

// claimWaitingScript pops the lowest ranks into the entered set, bounded by
// the remaining capacity, in one atomic step. Each claim also pushes the
// waiting set's expiry out so a long sale keeps its ranks.
// KEYS: waiting zset, entered set, admitted counter
// ARGV: limit, capacity, ttl seconds
const claimWaitingScript = `
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[3])
if ttl > 0 and redis.call('EXISTS', KEYS[1]) == 1 then
	redis.call('EXPIRE', KEYS[1], ttl)
end
local room = tonumber(ARGV[2]) - redis.call('SCARD', KEYS[2])
if room < limit then
	limit = room
end
if limit <= 0 then
	return {}
end
local popped = redis.call('ZPOPMIN', KEYS[1], limit)
local n = 0
for i = 1, #popped, 2 do
	redis.call('SADD', KEYS[2], popped[i])
	n = n + 1
end
if n > 0 then
	redis.call('INCRBY', KEYS[3], n)
	if ttl > 0 then
		redis.call('EXPIRE', KEYS[2], ttl)
		redis.call('EXPIRE', KEYS[3], ttl)
	end
end
return popped
`

// KEYS: waiting zset, entered set, admitted counter
// ARGV: member, ttl seconds
const markEnteredScript = `
redis.call('ZREM', KEYS[1], ARGV[1])
local added = redis.call('SADD', KEYS[2], ARGV[1])
if added == 1 then
	redis.call('INCR', KEYS[3])
end
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call('EXPIRE', KEYS[2], ttl)
	redis.call('EXPIRE', KEYS[3], ttl)
end
return added
`

// KEYS: waiting zset, entered set, admitted counter
// ARGV: member, rank, requeue flag
const releaseClaimScript = `
local removed = redis.call('SREM', KEYS[2], ARGV[1])
if removed == 1 then
	redis.call('DECR', KEYS[3])
end
if ARGV[3] == '1' then
	redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
end
return removed
`

// KEYS: waiting zset, entered set
// ARGV: member, rank, ttl seconds
const requeueScript = `
redis.call('SREM', KEYS[2], ARGV[1])
redis.call('ZADD', KEYS[1], ARGV[2], ARGV[1])
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('EXPIRE', KEYS[1], ttl)
end
return 1
`

// QueueIndex keeps per-event ranks in a sorted set and admitted users in a set.
type QueueIndex struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewQueueIndex(client redis.UniversalClient, ttl time.Duration) *QueueIndex {
	return &QueueIndex{client: client, ttl: ttl}
}

func waitingKey(eventID uuid.UUID) string {
	return fmt.Sprintf("queue:%s:waiting", eventID)
}

func enteredKey(eventID uuid.UUID) string {
	return fmt.Sprintf("queue:%s:entered", eventID)
}

func enteredCountKey(eventID uuid.UUID) string {
	return fmt.Sprintf("queue:%s:entered:count", eventID)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrExternalStore, op, err)
}

func (q *QueueIndex) ttlSeconds() int64 {
	return int64(q.ttl / time.Second)
}

func (q *QueueIndex) AddWaiting(ctx context.Context, eventID uuid.UUID, users []domain.RankedUser) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "redis.queue.add_waiting",
		attribute.String("event_id", eventID.String()),
		attribute.Int("count", len(users)),
	)
	defer func() { telemetry.End(span, err) }()

	if len(users) == 0 {
		return nil
	}

	key := waitingKey(eventID)
	for start := 0; start < len(users); start += addWaitingChunk {
		end := min(start+addWaitingChunk, len(users))

		members := make([]redis.Z, 0, end-start)
		for _, u := range users[start:end] {
			members = append(members, redis.Z{Score: float64(u.Rank), Member: u.UserID.String()})
		}

		if err := q.client.ZAdd(ctx, key, members...).Err(); err != nil {
			return storeErr("zadd waiting", err)
		}
	}

	if q.ttl > 0 {
		if err := q.client.Expire(ctx, key, q.ttl).Err(); err != nil {
			return storeErr("expire waiting", err)
		}
	}

	return nil
}

func (q *QueueIndex) WaitingCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	n, err := q.client.ZCard(ctx, waitingKey(eventID)).Result()
	if err != nil {
		return 0, storeErr("zcard waiting", err)
	}
	return n, nil
}

func (q *QueueIndex) EnteredCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	n, err := q.client.SCard(ctx, enteredKey(eventID)).Result()
	if err != nil {
		return 0, storeErr("scard entered", err)
	}
	return n, nil
}

func (q *QueueIndex) WaitingPosition(ctx context.Context, eventID, userID uuid.UUID) (int64, int64, bool, error) {
	key := waitingKey(eventID)

	ahead, err := q.client.ZRank(ctx, key, userID.String()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, false, nil
		}
		return 0, 0, false, storeErr("zrank waiting", err)
	}

	total, err := q.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, 0, false, storeErr("zcard waiting", err)
	}

	return ahead, total, true, nil
}

func (q *QueueIndex) TopWaiting(ctx context.Context, eventID uuid.UUID, n int64) ([]domain.RankedUser, error) {
	if n <= 0 {
		return nil, nil
	}

	zs, err := q.client.ZRangeWithScores(ctx, waitingKey(eventID), 0, n-1).Result()
	if err != nil {
		return nil, storeErr("zrange waiting", err)
	}

	users := make([]domain.RankedUser, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		id, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("parse waiting member %q: %w", member, err)
		}
		users = append(users, domain.RankedUser{UserID: id, Rank: int64(z.Score)})
	}

	return users, nil
}

func (q *QueueIndex) ClaimWaiting(ctx context.Context, eventID uuid.UUID, limit, capacity int64) (users []domain.RankedUser, err error) {
	ctx, span := telemetry.StartSpan(ctx, "redis.queue.claim_waiting",
		attribute.String("event_id", eventID.String()),
		attribute.Int64("limit", limit),
	)
	defer func() { telemetry.End(span, err) }()

	keys := []string{waitingKey(eventID), enteredKey(eventID), enteredCountKey(eventID)}
	res, err := q.client.Eval(ctx, claimWaitingScript, keys, limit, capacity, q.ttlSeconds()).Slice()
	if err != nil {
		return nil, storeErr("claim waiting", err)
	}

	return parseRankedPairs(res)
}

// parseRankedPairs decodes a flat [member, score, member, score, ...] reply.
func parseRankedPairs(res []any) ([]domain.RankedUser, error) {
	if len(res)%2 != 0 {
		return nil, fmt.Errorf("unexpected claim reply length %d", len(res))
	}

	users := make([]domain.RankedUser, 0, len(res)/2)
	for i := 0; i < len(res); i += 2 {
		member, _ := res[i].(string)
		id, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("parse claimed member %q: %w", member, err)
		}

		score, _ := res[i+1].(string)
		rank, err := strconv.ParseFloat(score, 64)
		if err != nil {
			return nil, fmt.Errorf("parse claimed score %q: %w", score, err)
		}

		users = append(users, domain.RankedUser{UserID: id, Rank: int64(rank)})
	}

	return users, nil
}

func (q *QueueIndex) ReleaseClaim(ctx context.Context, eventID uuid.UUID, user domain.RankedUser, requeue bool) error {
	flag := "0"
	if requeue {
		flag = "1"
	}

	keys := []string{waitingKey(eventID), enteredKey(eventID), enteredCountKey(eventID)}
	if err := q.client.Eval(ctx, releaseClaimScript, keys, user.UserID.String(), user.Rank, flag).Err(); err != nil {
		return storeErr("release claim", err)
	}
	return nil
}

func (q *QueueIndex) MarkEntered(ctx context.Context, eventID, userID uuid.UUID) error {
	keys := []string{waitingKey(eventID), enteredKey(eventID), enteredCountKey(eventID)}
	if err := q.client.Eval(ctx, markEnteredScript, keys, userID.String(), q.ttlSeconds()).Err(); err != nil {
		return storeErr("mark entered", err)
	}
	return nil
}

func (q *QueueIndex) RemoveEntered(ctx context.Context, eventID, userID uuid.UUID) error {
	if err := q.client.SRem(ctx, enteredKey(eventID), userID.String()).Err(); err != nil {
		return storeErr("srem entered", err)
	}
	return nil
}

func (q *QueueIndex) Requeue(ctx context.Context, eventID uuid.UUID, user domain.RankedUser) error {
	keys := []string{waitingKey(eventID), enteredKey(eventID)}
	if err := q.client.Eval(ctx, requeueScript, keys, user.UserID.String(), user.Rank, q.ttlSeconds()).Err(); err != nil {
		return storeErr("requeue", err)
	}
	return nil
}

func (q *QueueIndex) IsEntered(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	ok, err := q.client.SIsMember(ctx, enteredKey(eventID), userID.String()).Result()
	if err != nil {
		return false, storeErr("sismember entered", err)
	}
	return ok, nil
}

// Rebuild replaces the waiting and entered projections with the given
// durable snapshot. The admitted counter is left untouched.
func (q *QueueIndex) Rebuild(ctx context.Context, eventID uuid.UUID, waiting []domain.RankedUser, entered []uuid.UUID) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "redis.queue.rebuild",
		attribute.String("event_id", eventID.String()),
		attribute.Int("waiting", len(waiting)),
		attribute.Int("entered", len(entered)),
	)
	defer func() { telemetry.End(span, err) }()

	wKey, eKey := waitingKey(eventID), enteredKey(eventID)

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, wKey, eKey)

		if len(waiting) > 0 {
			members := make([]redis.Z, len(waiting))
			for i, u := range waiting {
				members[i] = redis.Z{Score: float64(u.Rank), Member: u.UserID.String()}
			}
			pipe.ZAdd(ctx, wKey, members...)
		}

		if len(entered) > 0 {
			ids := make([]any, len(entered))
			for i, id := range entered {
				ids[i] = id.String()
			}
			pipe.SAdd(ctx, eKey, ids...)
		}

		if q.ttl > 0 {
			pipe.Expire(ctx, wKey, q.ttl)
			pipe.Expire(ctx, eKey, q.ttl)
		}
		return nil
	})
	if err != nil {
		return storeErr("rebuild", err)
	}
	return nil
}

func (q *QueueIndex) Clear(ctx context.Context, eventID uuid.UUID) error {
	if err := q.client.Del(ctx, waitingKey(eventID), enteredKey(eventID), enteredCountKey(eventID)).Err(); err != nil {
		return storeErr("clear", err)
	}
	return nil
}
