// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/tournament-backend/internal/config"
)

// RateStore is the Redis connection that holds the shared rate limit
// buckets. Readiness pings it and the admin stats report its pool.
type RateStore struct {
	client *redis.Client
}

func OpenRateStore(ctx context.Context, cfg config.RedisConfig) (*RateStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.ConnMaxIdleTime = 5 * time.Minute

	store := &RateStore{client: redis.NewClient(opts)}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close() //nolint:errcheck // already failing
		return nil, err
	}

	return store, nil
}

func (s *RateStore) Client() *redis.Client {
	return s.client
}

func (s *RateStore) Ping(ctx context.Context) error {
	err := boundedPing(ctx, func(ctx context.Context) error {
		return s.client.Ping(ctx).Err()
	})
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

func (s *RateStore) PoolStats() *redis.PoolStats {
	return s.client.PoolStats()
}

func (s *RateStore) Close() error {
	return s.client.Close()
}
