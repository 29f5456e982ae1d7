package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps signals in Redis so that several server instances share them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Put stores the signal with SET EX, replacing any pending one.
func (s *RedisStore) Put(ctx context.Context, site, actor string, signal OpenPart) error {
	data, err := json.Marshal(signal)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, storeKey(site, actor), data, s.ttl).Err()
}

// Consume reads and deletes the signal in one GETDEL round trip.
func (s *RedisStore) Consume(ctx context.Context, site, actor string) (OpenPart, error) {
	data, err := s.client.GetDel(ctx, storeKey(site, actor)).Bytes()
	if errors.Is(err, redis.Nil) {
		return OpenPart{}, ErrNotFound
	}
	if err != nil {
		return OpenPart{}, err
	}

	var signal OpenPart
	if err := json.Unmarshal(data, &signal); err != nil {
		return OpenPart{}, err
	}
	return signal, nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
