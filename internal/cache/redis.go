package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loc/inventory-service/internal/config"
)

const (
	idempotencyKeyPrefix     = "inventory:idempotency:"
	defaultIdempotencyKeyTTL = 24 * time.Hour
)

func NewRedisClient(conf *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
}

// IdempotencyStore remembers request keys for ttl so a retried write is
// applied at most once.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyKeyTTL
	}

	return &IdempotencyStore{
		client: client,
		ttl:    ttl,
	}
}

// Reserve returns false when key was already reserved and has not expired.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, s.ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
