package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each namespace in one hash, so several web front end
// instances can share browser state.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func buildKey(namespace string) string {
	return fmt.Sprintf("pawplan:ls:%s", namespace)
}

func (s *RedisStore) GetItem(ctx context.Context, namespace, key string) (string, bool, error) {
	val, err := s.client.HGet(ctx, buildKey(namespace), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s from %s: %w", key, buildKey(namespace), err)
	}
	return val, true, nil
}

func (s *RedisStore) SetItem(ctx context.Context, namespace, key, value string) error {
	if err := s.client.HSet(ctx, buildKey(namespace), key, value).Err(); err != nil {
		return fmt.Errorf("failed to set %s in %s: %w", key, buildKey(namespace), err)
	}
	return nil
}

func (s *RedisStore) RemoveItem(ctx context.Context, namespace, key string) error {
	if err := s.client.HDel(ctx, buildKey(namespace), key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s from %s: %w", key, buildKey(namespace), err)
	}
	return nil
}

// Ping connectivity
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
