package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pente:turn:"

// RedisTurnStore keeps one counter per game under pente:turn:<game id>.
type RedisTurnStore struct {
	client *redis.Client
	gameID string
}

func NewRedisTurnStore(client *redis.Client, gameID string) *RedisTurnStore {
	return &RedisTurnStore{client: client, gameID: gameID}
}

func RedisKey(gameID string) string {
	return redisKeyPrefix + gameID
}

func (s *RedisTurnStore) Load(ctx context.Context) (int, error) {
	v, err := s.client.Get(ctx, RedisKey(s.gameID)).Result()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("turn store %s: %w", RedisKey(s.gameID), err)
	}
	return parseTurn(v), nil
}

func (s *RedisTurnStore) Store(ctx context.Context, turn int) error {
	if err := s.client.Set(ctx, RedisKey(s.gameID), turn, 0).Err(); err != nil {
		return fmt.Errorf("turn store %s: %w", RedisKey(s.gameID), err)
	}
	return nil
}

// Advance initialises a missing counter to 1 and increments it in a single
// MULTI/EXEC, so concurrent callers never hand out the same turn twice.
func (s *RedisTurnStore) Advance(ctx context.Context) (int, error) {
	key := RedisKey(s.gameID)
	pipe := s.client.TxPipeline()
	pipe.SetNX(ctx, key, 1, 0)
	incr := pipe.Incr(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("turn store %s: %w", key, err)
	}
	return int(incr.Val()), nil
}
