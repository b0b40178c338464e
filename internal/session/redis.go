package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps session keys in Redis under storefront:<profile>:<key>, so
// several client profiles can share one instance.
type RedisKV struct {
	client  *redis.Client
	profile string
	ttl     time.Duration
}

// NewRedisKV returns a backend for profile. A zero ttl keeps keys forever.
func NewRedisKV(client *redis.Client, profile string, ttl time.Duration) *RedisKV {
	if profile == "" {
		profile = "default"
	}
	return &RedisKV{client: client, profile: profile, ttl: ttl}
}

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return data, true, nil
}

func (r *RedisKV) SetMany(ctx context.Context, values map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.key(k), v, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisKV) key(k string) string {
	return fmt.Sprintf("storefront:%s:%s", r.profile, k)
}
