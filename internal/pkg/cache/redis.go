package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisOptions configures a RedisCache
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// RedisCache is a Cache backed by Redis string keys with a fixed TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects to Redis and verifies the connection with a PING
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return &RedisCache{client: client, ttl: opts.TTL, prefix: opts.Prefix}, nil
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), raw, c.ttl).Err()
}

// Delete removes keys in one pipeline round trip
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, c.key(k))
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
