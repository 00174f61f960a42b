package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"example.com/helloapi/internal/domain"
	"example.com/helloapi/internal/storage"

	"github.com/redis/go-redis/v9"
)

const DefaultKey = "hello:message"

// Store keeps the greeting under a single key. How durable it is depends on
// the server's persistence settings.
type Store struct {
	rdb *redis.Client
	key string
}

func Open(ctx context.Context, addr, key string) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return New(rdb, key), nil
}

func New(rdb *redis.Client, key string) *Store {
	return &Store{rdb: rdb, key: key}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) GetMessage(ctx context.Context) (domain.Message, error) {
	v, err := s.rdb.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Message{}, storage.ErrNotFound
		}
		return domain.Message{}, err
	}
	return domain.Message{ID: domain.MessageID, Message: v}, nil
}

func (s *Store) UpsertMessage(ctx context.Context, text string) (domain.Message, error) {
	if err := s.rdb.Set(ctx, s.key, text, 0).Err(); err != nil {
		return domain.Message{}, err
	}
	return domain.Message{ID: domain.MessageID, Message: text}, nil
}

func (s *Store) EnsureMessage(ctx context.Context, text string) (bool, error) {
	return s.rdb.SetNX(ctx, s.key, text, 0).Result()
}
