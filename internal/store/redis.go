package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coachdesk/coachdesk/internal/models"
)

const (
	messageTTL   = 24 * time.Hour
	cacheMaxSize = 200
)

// RedisStore is a hot cache in front of the relational store. It holds the
// recent message window per classroom and the rate-limit counters. Every
// operation is best-effort; the relational store stays authoritative.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Client exposes the underlying client, e.g. for the rate limiter.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// roomMessagesKey returns the key for a classroom's message sorted set.
func roomMessagesKey(roomID string) string {
	return fmt.Sprintf("room:%s:messages", roomID)
}

// rateLimitKey returns the key for a client's rate limit counter.
func rateLimitKey(id string) string {
	return fmt.Sprintf("ratelimit:%s", id)
}

// CacheMessage adds a message to the room's recent window. ULID message IDs
// sort lexicographically by creation time, so the member doubles as the score
// tiebreaker.
func (s *RedisStore) CacheMessage(ctx context.Context, msg *models.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	key := roomMessagesKey(msg.RoomID)

	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(msg.CreatedAt.UnixMilli()),
		Member: string(data),
	})
	pipe.ZRemRangeByRank(ctx, key, 0, -(cacheMaxSize + 1))
	pipe.Expire(ctx, key, messageTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// CachedRecent returns up to limit recent messages for a room, oldest first.
// A nil slice means cache miss; callers fall through to the relational store.
func (s *RedisStore) CachedRecent(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	key := roomMessagesKey(roomID)

	results, err := s.client.ZRevRange(ctx, key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	messages := make([]models.Message, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		var msg models.Message
		if err := json.Unmarshal([]byte(results[i]), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// InvalidateRoom drops a room's cached window. Called after a message delete
// or a classroom delete; rebuilding from the relational store is cheaper than
// surgically removing one member.
func (s *RedisStore) InvalidateRoom(ctx context.Context, roomID string) error {
	return s.client.Del(ctx, roomMessagesKey(roomID)).Err()
}

// Allow increments the counter for id and reports whether it is still within
// limit for the window. Fails open on Redis errors.
func (s *RedisStore) Allow(ctx context.Context, id string, limit int, window time.Duration) (bool, error) {
	key := rateLimitKey(id)

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}
	return incr.Val() <= int64(limit), nil
}
