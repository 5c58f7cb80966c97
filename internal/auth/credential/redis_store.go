package credential

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisUseStore struct {
	client *redis.Client
	prefix string
}

// NewRedisUseStore creates a Redis-backed single-use tracker.
func NewRedisUseStore(client *redis.Client) *RedisUseStore {
	return &RedisUseStore{
		client: client,
		prefix: "credential:",
	}
}

func (r *RedisUseStore) key(jti string) string {
	return r.prefix + jti
}

func (r *RedisUseStore) Register(ctx context.Context, jti string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(jti), "1", ttl).Err()
}

// Consume deletes the use marker and reports whether it existed.
// GETDEL keeps check-and-consume atomic under concurrent redemption.
func (r *RedisUseStore) Consume(ctx context.Context, jti string) (bool, error) {
	_, err := r.client.GetDel(ctx, r.key(jti)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
