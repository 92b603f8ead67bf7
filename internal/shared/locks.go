package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PaymentLockKey builds redis keys for the per-PO payment critical section.
func PaymentLockKey(poNumber string) string {
	return fmt.Sprintf("payments:po:%s:lock", poNumber)
}

// ErrLockNotAcquired is returned when the lock stays held past the wait budget.
var ErrLockNotAcquired = errors.New("lock not acquired")

// RedisLockManager serialises critical sections across processes using
// SET NX with a per-holder token and an expiry guard.
type RedisLockManager struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisLockManager constructs a lock manager with sane defaults.
func NewRedisLockManager(client *redis.Client) *RedisLockManager {
	return &RedisLockManager{client: client, ttl: 10 * time.Second, wait: 5 * time.Second}
}

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// Acquire blocks until the key is held or the wait budget runs out. The
// returned function releases the lock, checking the holder token so an
// expired lock is never released out from under a new holder.
func (m *RedisLockManager) Acquire(ctx context.Context, key string) (func(), error) {
	if m == nil || m.client == nil {
		return nil, errors.New("lock manager not initialised")
	}
	token := uuid.NewString()
	deadline := time.Now().Add(m.wait)
	for {
		ok, err := m.client.SetNX(ctx, key, token, m.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("shared: acquire lock %s: %w", key, err)
		}
		if ok {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, m.client, []string{key}, token).Err()
			}
			return release, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("shared: %s: %w", key, ErrLockNotAcquired)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(25 * time.Millisecond):
		}
	}
}
