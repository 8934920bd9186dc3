package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell-cms/backend/internal/security"
)

const keyPrefix = "revoked:"

// RedisCache implements Cache on a Redis instance. Keys hold the SHA-256 digest
// of the token, not the raw value, and carry the token's remaining lifetime as
// TTL so Redis reclaims them without any explicit cleanup.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache returns a RedisCache using the given addr and password.
func NewRedisCache(addr, password string) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Put records the token as revoked for ttl. No-op when ttl is non-positive.
func (c *RedisCache) Put(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, keyPrefix+security.HashToken(token), "1", ttl).Err()
}

// Exists reports whether the token is blacklisted.
func (c *RedisCache) Exists(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, keyPrefix+security.HashToken(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
