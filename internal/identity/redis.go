package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/food-swipe/internal/domain"
)

const redisKeyPrefix = "food-swipe:"

// RedisStore keeps the token in Redis, optionally expiring it after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// OpenRedis parses a redis:// URL and connects.
func OpenRedis(ctx context.Context, rawURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key() string {
	return redisKeyPrefix + tokenKey
}

// Get token from redis
func (s *RedisStore) Load(ctx context.Context) (Record, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if err == redis.Nil {
		return Record{}, domain.ErrTokenNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get token from redis: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal token %s: %w", s.key(), err)
	}
	return rec, nil
}

// Store token in redis
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set token in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis delete %s: %w", s.key(), err)
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
