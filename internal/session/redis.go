package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"autopost/internal/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "autopost:session:"

// RedisStore shares sessions between replicas. Entries still expire after the
// TTL so nothing outlives an operator session.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (model.AuthSession, error) {
	raw, err := r.client.GetEx(ctx, keyPrefix+id, r.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.AuthSession{}, nil
	}
	if err != nil {
		return model.AuthSession{}, fmt.Errorf("redis get session: %w", err)
	}

	var s model.AuthSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.AuthSession{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, id string, s model.AuthSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+id, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}
