package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// idempotencyTTL bounds how long a claimed checkout key blocks resubmission.
const idempotencyTTL = 24 * time.Hour

// RedisIdempotencyGuard claims checkout idempotency keys in Redis with a TTL.
type RedisIdempotencyGuard struct {
	rdb *redis.Client
}

func NewRedisIdempotencyGuard(rdb *redis.Client) *RedisIdempotencyGuard {
	return &RedisIdempotencyGuard{rdb: rdb}
}

// Claim atomically records the key and reports whether this caller won it.
// A false return means the same key was already submitted within the TTL.
func (g *RedisIdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	return g.rdb.SetNX(ctx, redisKey, "exists", idempotencyTTL).Result()
}
