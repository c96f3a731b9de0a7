package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultSlotTTL = 7 * 24 * time.Hour

// RedisStore persists draft and order slots in Redis so checkout state
// survives restarts and scales past one process.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. Slots expire after a week of
// inactivity; abandoned checkouts should not pile up forever.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: defaultSlotTTL}
}

// NewRedisStoreFromURL dials Redis from a redis:// URL and verifies the
// connection.
func NewRedisStoreFromURL(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStore(client), nil
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// SaveDraft replaces the draft slot for key.
func (s *RedisStore) SaveDraft(ctx context.Context, key string, draft Draft) error {
	return s.set(ctx, draftKeyPrefix+key, draft)
}

// LoadDraft returns the draft for key or ErrNotFound.
func (s *RedisStore) LoadDraft(ctx context.Context, key string) (Draft, error) {
	var draft Draft
	if err := s.get(ctx, draftKeyPrefix+key, &draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

// ClearDraft removes the draft slot for key.
func (s *RedisStore) ClearDraft(ctx context.Context, key string) error {
	return s.del(ctx, draftKeyPrefix+key)
}

// SaveOrder replaces the order slot for key.
func (s *RedisStore) SaveOrder(ctx context.Context, key string, order Order) error {
	return s.set(ctx, orderKeyPrefix+key, order)
}

// LoadOrder returns the order for key or ErrNotFound.
func (s *RedisStore) LoadOrder(ctx context.Context, key string) (Order, error) {
	var ord Order
	if err := s.get(ctx, orderKeyPrefix+key, &ord); err != nil {
		return Order{}, err
	}
	return ord, nil
}

// ClearOrder removes the order slot for key.
func (s *RedisStore) ClearOrder(ctx context.Context, key string) error {
	return s.del(ctx, orderKeyPrefix+key)
}

func (s *RedisStore) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string, target any) error {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read slot %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("decode slot %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}
