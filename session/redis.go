package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionDataPrefix = "session_data:"

// RedisStore keeps session bags in Redis so the multi-step auth flow
// survives process restarts and works across instances. Bags are stored as
// JSON values with the session TTL applied on every save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to the given Redis URL and verifies the connection.
func NewRedisStore(url string, ttlHours int) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisStore{client: client, ttl: storageTTL(ttlHours)}, nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*Data, error) {
	payload, err := s.client.Get(ctx, sessionDataPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session data: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sid, err)
	}
	return &data, nil
}

func (s *RedisStore) Save(ctx context.Context, sid string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sid, err)
	}

	if err := s.client.Set(ctx, sessionDataPrefix+sid, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session data: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, sessionDataPrefix+sid).Err(); err != nil {
		return fmt.Errorf("failed to delete session data: %w", err)
	}
	return nil
}
