package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coachdesk/coachdesk/internal/models"
)

// CachedStore layers the Redis hot cache over a DataStore. Message reads hit
// Redis first; writes go to the relational store and then refresh the cache
// best-effort. Everything else passes straight through.
type CachedStore struct {
	DataStore
	cache *RedisStore
	log   zerolog.Logger
}

// NewCachedStore wraps db with the Redis message cache.
func NewCachedStore(db DataStore, cache *RedisStore, log zerolog.Logger) *CachedStore {
	return &CachedStore{DataStore: db, cache: cache, log: log}
}

func (s *CachedStore) AppendMessage(ctx context.Context, msg *models.Message) error {
	if err := s.DataStore.AppendMessage(ctx, msg); err != nil {
		return err
	}
	if err := s.cache.CacheMessage(ctx, msg); err != nil {
		s.log.Warn().Err(err).Str("room_id", msg.RoomID).Msg("message cache write failed")
	}
	return nil
}

func (s *CachedStore) RecentMessages(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	msgs, err := s.cache.CachedRecent(ctx, roomID, limit)
	if err != nil {
		s.log.Warn().Err(err).Str("room_id", roomID).Msg("message cache read failed")
	} else if msgs != nil {
		return msgs, nil
	}
	return s.DataStore.RecentMessages(ctx, roomID, limit)
}

func (s *CachedStore) DeleteMessage(ctx context.Context, roomID, messageID string) error {
	if err := s.DataStore.DeleteMessage(ctx, roomID, messageID); err != nil {
		return err
	}
	if err := s.cache.InvalidateRoom(ctx, roomID); err != nil {
		s.log.Warn().Err(err).Str("room_id", roomID).Msg("message cache invalidate failed")
	}
	return nil
}

func (s *CachedStore) DeleteClassroom(ctx context.Context, roomID string) error {
	if err := s.DataStore.DeleteClassroom(ctx, roomID); err != nil {
		return err
	}
	if err := s.cache.InvalidateRoom(ctx, roomID); err != nil {
		s.log.Warn().Err(err).Str("room_id", roomID).Msg("message cache invalidate failed")
	}
	return nil
}
