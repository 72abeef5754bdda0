package idempotency

import (
	"context"
	"time"

	"filemarket/internal/cache"
	"filemarket/internal/errors"
)

const (
	keyPrefix  = "idem:"
	lockSuffix = ":lock"
	dataSuffix = ":data"
	lockTTL    = 10 * time.Second   // How long to block a concurrent retry
	dataTTL    = 24 * 7 * time.Hour // How long to replay a finished response
)

type Store struct {
	cache *cache.RedisClient
}

func NewStore(c *cache.RedisClient) *Store {
	return &Store{cache: c}
}

func (s *Store) SaveResponse(ctx context.Context, key string, resp IdempotencyResponse) error {
	if err := cache.Set(s.cache, ctx, keyPrefix+key+dataSuffix, resp, dataTTL); err != nil {
		return errors.New(errors.ErrInternal, "Internal error. Please contact support.", err)
	}

	// Waiting retries read the data as soon as the lock is gone.
	_ = cache.Del(s.cache, ctx, keyPrefix+key+lockSuffix)

	return nil
}

func (s *Store) GetResponse(ctx context.Context, key string) (*IdempotencyResponse, bool, error) {
	return cache.Get[IdempotencyResponse](s.cache, ctx, keyPrefix+key+dataSuffix)
}

// Lock reports false when the key is held or already answered; the
// middleware then tells the two cases apart through GetResponse.
func (s *Store) Lock(ctx context.Context, key string) (bool, error) {
	_, found, err := s.GetResponse(ctx, key)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}

	return cache.SetNX(s.cache, ctx, keyPrefix+key+lockSuffix, "1", lockTTL)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_ = cache.Del(s.cache, ctx, keyPrefix+key+lockSuffix)
	_ = cache.Del(s.cache, ctx, keyPrefix+key+dataSuffix)
	return nil
}
