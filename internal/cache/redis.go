package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects and pings. Callers fall back to NoOpStore on error.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) DeleteMatching(ctx context.Context, substring string) (int, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if key := iter.Val(); strings.Contains(key, substring) {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	n, err := s.client.Del(ctx, keys...).Result()
	return int(n), err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NoOpStore is the durable tier when caching to Redis is disabled or unreachable.
type NoOpStore struct{}

func (NoOpStore) Get(context.Context, string) ([]byte, error) {
	return nil, ErrMiss
}

func (NoOpStore) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (NoOpStore) DeleteMatching(context.Context, string) (int, error) {
	return 0, nil
}

func (NoOpStore) Close() error {
	return nil
}
