package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/textilehouse-backend/pkg/redis"
)

type redisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRangeByScore(ctx context.Context, key string, max float64, limit int64) ([]string, error)
	ZRem(ctx context.Context, key string, members ...string) error
	CartKey(sessionID string) string
	CartIndexKey() string
}

// RedisStore keeps each cart as JSON under its own key and indexes sessions
// in a sorted set scored by UpdatedAt (unix milliseconds).
type RedisStore struct {
	client redisClient
	// keyTTL is a backstop expiry; the sweep normally removes carts first.
	keyTTL time.Duration
}

// NewRedisStore builds a RedisStore. Cart keys expire after twice idleTTL.
func NewRedisStore(client redisClient, idleTTL time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client required for cart store")
	}
	var keyTTL time.Duration
	if idleTTL > 0 {
		keyTTL = 2 * idleTTL
	}
	return &RedisStore{client: client, keyTTL: keyTTL}, nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Cart, bool, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load cart: %w", err)
	}
	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, false, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []LineItem{}
	}
	return &cart, true, nil
}

func (s *RedisStore) Save(ctx context.Context, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(cart.SessionID), payload, s.keyTTL); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	if err := s.client.ZAdd(ctx, s.client.CartIndexKey(), cart.SessionID, score(cart.UpdatedAt)); err != nil {
		return fmt.Errorf("index cart: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if err := s.client.ZRem(ctx, s.client.CartIndexKey(), sessionID); err != nil {
		return fmt.Errorf("unindex cart: %w", err)
	}
	return nil
}

func (s *RedisStore) ListIdle(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	ids, err := s.client.ZRangeByScore(ctx, s.client.CartIndexKey(), score(cutoff), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list idle carts: %w", err)
	}
	return ids, nil
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}
