package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewClient connects to Redis. It returns nil when addr is empty or the
// server does not answer, and the caller carries on without a cache.
func NewClient(ctx context.Context, addr, password string) *redis.Client {
	if addr == "" {
		log.Info().Msg("[REDIS] no REDIS_URL set, snapshot cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("[REDIS] could not connect, snapshot cache disabled")
		client.Close()
		return nil
	}

	log.Info().Str("addr", addr).Msg("[REDIS] connected successfully")
	return client
}

// RedisCache acts as a wrapper around redis.Client to implement the session snapshot cache
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
