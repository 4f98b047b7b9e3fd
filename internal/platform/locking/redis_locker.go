package locking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trust_ledger/internal/core/ports/infra"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// RedisLocker takes owner locks in Redis so several API instances serialize postings.
type RedisLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

var _ infra.OwnerLocker = (*RedisLocker)(nil)

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRedisLocker creates a RedisLocker. ttl bounds how long a crashed holder can block an owner.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		locker: redislock.New(client),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(25*time.Millisecond), int(ttl/(25*time.Millisecond))),
	}
}

// LockOwners obtains one lock per owner in sorted order.
func (l *RedisLocker) LockOwners(ctx context.Context, ownerIDs []string) (func(), error) {
	ids := sortedUnique(ownerIDs)
	held := make([]*redislock.Lock, 0, len(ids))
	release := func() {
		// release must not depend on the request context being alive
		rctx := context.WithoutCancel(ctx)
		for i := len(held) - 1; i >= 0; i-- {
			if err := held[i].Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				slog.Default().Warn("Failed to release owner lock", slog.String("key", held[i].Key()), slog.String("error", err.Error()))
			}
		}
	}

	for _, id := range ids {
		lock, err := l.locker.Obtain(ctx, keyPrefix+id, l.ttl, &redislock.Options{RetryStrategy: l.retry})
		if err != nil {
			release()
			if errors.Is(err, redislock.ErrNotObtained) {
				return nil, infra.ErrLockNotObtained
			}
			return nil, fmt.Errorf("failed to obtain owner lock for %s: %w", id, err)
		}
		held = append(held, lock)
	}
	return release, nil
}
