package lock

import (
	"context"
	"fmt"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appvaluation "github.com/erp/costing/internal/application/valuation"
	"github.com/erp/costing/internal/infrastructure/config"
)

// RedisItemLocker serializes per-item movements across engine instances
// using Redis-backed distributed locks
type RedisItemLocker struct {
	locker *redislock.Client
	cfg    config.LockConfig
	logger *zap.Logger
}

// NewRedisItemLocker creates a new RedisItemLocker on the given client
func NewRedisItemLocker(client *redis.Client, cfg config.LockConfig, logger *zap.Logger) *RedisItemLocker {
	return &RedisItemLocker{
		locker: redislock.New(client),
		cfg:    cfg,
		logger: logger,
	}
}

// AcquireItemLock obtains the item's lock, retrying with a linear backoff
// until the configured retry budget runs out
func (l *RedisItemLocker) AcquireItemLock(ctx context.Context, itemID uuid.UUID) (appvaluation.UnlockFunc, error) {
	key := fmt.Sprintf("costing:item-lock:%s", itemID)

	lock, err := l.locker.Obtain(ctx, key, l.cfg.TTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(
			redislock.LinearBackoff(l.cfg.RetryDelay), l.cfg.MaxRetries),
	})
	if err != nil {
		if err == redislock.ErrNotObtained {
			return nil, fmt.Errorf("item lock not obtained for %s: %w", itemID, err)
		}
		return nil, err
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && err != redislock.ErrLockNotHeld {
			l.logger.Warn("Failed to release item lock",
				zap.String("key", key),
				zap.Error(err))
			return err
		}
		return nil
	}, nil
}

var _ appvaluation.ItemLocker = (*RedisItemLocker)(nil)
