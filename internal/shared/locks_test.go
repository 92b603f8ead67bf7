package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLockManager(t *testing.T) (*RedisLockManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLockManager(client), mr
}

func TestRedisLockManagerAcquireRelease(t *testing.T) {
	manager, _ := newTestLockManager(t)
	ctx := context.Background()

	release, err := manager.Acquire(ctx, PaymentLockKey("PO-1000-001"))
	require.NoError(t, err)
	release()

	// Re-acquire after release must succeed immediately.
	release2, err := manager.Acquire(ctx, PaymentLockKey("PO-1000-001"))
	require.NoError(t, err)
	release2()
}

func TestRedisLockManagerBlocksSecondHolder(t *testing.T) {
	manager, _ := newTestLockManager(t)
	manager.wait = 100 * time.Millisecond
	ctx := context.Background()

	release, err := manager.Acquire(ctx, PaymentLockKey("PO-2000-002"))
	require.NoError(t, err)
	defer release()

	_, err = manager.Acquire(ctx, PaymentLockKey("PO-2000-002"))
	require.ErrorIs(t, err, ErrLockNotAcquired)
}

func TestRedisLockManagerIndependentKeys(t *testing.T) {
	manager, _ := newTestLockManager(t)
	ctx := context.Background()

	releaseA, err := manager.Acquire(ctx, PaymentLockKey("PO-3000-003"))
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := manager.Acquire(ctx, PaymentLockKey("PO-3000-004"))
	require.NoError(t, err)
	releaseB()
}

func TestRedisLockManagerReleaseChecksToken(t *testing.T) {
	manager, mr := newTestLockManager(t)
	ctx := context.Background()

	release, err := manager.Acquire(ctx, PaymentLockKey("PO-4000-005"))
	require.NoError(t, err)

	// Simulate expiry plus takeover by another holder.
	mr.Del(PaymentLockKey("PO-4000-005"))
	require.NoError(t, mr.Set(PaymentLockKey("PO-4000-005"), "other-holder"))

	release()
	got, err := mr.Get(PaymentLockKey("PO-4000-005"))
	require.NoError(t, err)
	require.Equal(t, "other-holder", got)
}
