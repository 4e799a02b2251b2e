package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

// RedisOrderCache keeps the latest delivery status per order so status
// polling does not hit MySQL. Best-effort: a miss just falls through to
// the repo.
type RedisOrderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisOrderCache(rdb *redis.Client, ttl time.Duration) *RedisOrderCache {
	return &RedisOrderCache{rdb: rdb, ttl: ttl}
}

func statusKey(orderID string) string { return "order:delivery:" + orderID }

func (r *RedisOrderCache) SetDeliveryStatus(ctx context.Context, orderID string, status domain.DeliveryStatus) error {
	return r.rdb.Set(ctx, statusKey(orderID), string(status), r.ttl).Err()
}

func (r *RedisOrderCache) GetDeliveryStatus(ctx context.Context, orderID string) (domain.DeliveryStatus, bool, error) {
	val, err := r.rdb.Get(ctx, statusKey(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.DeliveryStatus(val), true, nil
}

var _ usecase.OrderCache = (*RedisOrderCache)(nil)
