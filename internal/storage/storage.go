package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Keys kept in a client's local storage.
const (
	KeyLastDogID = "last_dog_id"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// LocalStorage is the client-side key/value store, partitioned by namespace
// (one namespace per browser client or CLI profile).
type LocalStorage interface {
	GetItem(ctx context.Context, namespace, key string) (string, bool, error)
	SetItem(ctx context.Context, namespace, key, value string) error
	RemoveItem(ctx context.Context, namespace, key string) error
	Close() error
}

type Options struct {
	Backend  string
	DBPath   string
	RedisURL string
}

// Open returns the backend named in opts.
func Open(ctx context.Context, opts Options) (LocalStorage, error) {
	switch opts.Backend {
	case "sqlite", "":
		return OpenSQLite(ctx, opts.DBPath)
	case "redis":
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		store := NewRedisStore(redis.NewClient(redisOpts))
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return store, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
