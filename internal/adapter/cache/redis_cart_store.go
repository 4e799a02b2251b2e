package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domain "github.com/vinagsv/quickbite-api/internal/entity"
	"github.com/vinagsv/quickbite-api/internal/usecase"
)

// RedisCartStore keeps the whole cart as one JSON value under
// "cart:<userID>". One value per user means every save is atomic; the TTL
// is refreshed on write so an active cart never expires mid-session.
type RedisCartStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCartStore(rdb *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{rdb: rdb, ttl: ttl}
}

func cartKey(userID string) string { return "cart:" + userID }

func (s *RedisCartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	raw, err := s.rdb.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewCart(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart get: %w", err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("cart decode: %w", err)
	}
	if cart.Lines == nil {
		cart.Lines = map[string]domain.CartLine{}
	}
	return &cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, userID string, cart *domain.Cart) error {
	if cart.Empty() {
		return s.Clear(ctx, userID)
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	return s.rdb.Set(ctx, cartKey(userID), raw, s.ttl).Err()
}

func (s *RedisCartStore) Clear(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, cartKey(userID)).Err()
}

var _ usecase.CartStore = (*RedisCartStore)(nil)
