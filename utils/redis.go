package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"alumni/session"
)

// OpenRedisPool connects to Redis and checks the connection.
func OpenRedisPool(dsn string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis dsn: %w", err)
	}

	// A CLI holds at most a couple of connections.
	opt.PoolSize = 4
	opt.MinIdleConns = 0
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisStorage keeps session items in the hash "session:<namespace>". Every
// write refreshes the hash TTL, so an idle session expires on its own.
type RedisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStorage returns storage under namespace. A ttl of zero keeps the
// hash until it is emptied.
func NewRedisStorage(client *redis.Client, namespace string, ttl time.Duration) *RedisStorage {
	if namespace == "" {
		namespace = "default"
	}
	return &RedisStorage{client: client, key: "session:" + namespace, ttl: ttl}
}

// Key returns the Redis key holding the hash.
func (s *RedisStorage) Key() string {
	return s.key
}

func (s *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	value, err := s.client.HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, key, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes one field. Redis drops the hash with its last field.
func (s *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.client.HDel(ctx, s.key, key).Err(); err != nil {
		return fmt.Errorf("redis remove %s: %w", key, err)
	}
	return nil
}

var _ session.Storage = (*RedisStorage)(nil)
