package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisDialTimeout = 3 * time.Second

// RedisBackend stores values in Redis under Prefix:key.
type RedisBackend struct {
	rdb    *goredis.Client
	prefix string
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend wraps an existing go-redis client.
func NewRedisBackend(rdb *goredis.Client, prefix string) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

// DialRedis connects to addr, verifies the connection with PING and returns a
// backend that owns the client.
func DialRedis(ctx context.Context, addr string, db int, prefix string) (*RedisBackend, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: redisDialTimeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisBackend(rdb, prefix), nil
}

func (r *RedisBackend) Get(ctx context.Context, key string) (string, bool, error) {
	if r == nil || r.rdb == nil {
		return "", false, ErrUnavailable
	}
	v, err := r.rdb.Get(ctx, r.fullKey(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key, value string) error {
	if r == nil || r.rdb == nil {
		return ErrUnavailable
	}
	if err := r.rdb.Set(ctx, r.fullKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisBackend) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}

func (r *RedisBackend) fullKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
