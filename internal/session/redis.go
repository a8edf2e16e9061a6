package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores each session as a Redis hash under prefix+sessionID.
type RedisKV struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisKV(client redis.UniversalClient) *RedisKV {
	return &RedisKV{client: client, prefix: "folio:session:"}
}

// NewRedisKVWithPrefix creates a Redis store with a custom key prefix.
func NewRedisKVWithPrefix(client redis.UniversalClient, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

func (s *RedisKV) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.prefix+sessionID, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget: %w", err)
	}
	return v, true, nil
}

func (s *RedisKV) Set(ctx context.Context, sessionID, key, value string) error {
	if err := s.client.HSet(ctx, s.prefix+sessionID, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}
