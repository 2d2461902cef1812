package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"herbimmortal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T, wait time.Duration) (*RedisSlotLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSlotLocker(client, 10*time.Second, wait, nil), mr
}

func TestRedisSlotLockerExcludesSecondHolder(t *testing.T) {
	locker, mr := newRedisLocker(t, 120*time.Millisecond)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "P1", "2025-06-10")
	require.NoError(t, err)
	assert.True(t, mr.Exists(lockKey("P1", "2025-06-10")))

	_, err = locker.Acquire(ctx, "P1", "2025-06-10")
	assert.True(t, errors.Is(err, utils.ErrSlotBusy))

	other, err := locker.Acquire(ctx, "P1", "2025-06-11")
	require.NoError(t, err, "another date is a different lock")
	other()

	release()
	release()
	assert.False(t, mr.Exists(lockKey("P1", "2025-06-10")))

	again, err := locker.Acquire(ctx, "P1", "2025-06-10")
	require.NoError(t, err)
	again()
}

func TestRedisSlotLockerKeepsForeignToken(t *testing.T) {
	locker, mr := newRedisLocker(t, 50*time.Millisecond)
	key := lockKey("P1", "2025-06-10")

	release, err := locker.Acquire(context.Background(), "P1", "2025-06-10")
	require.NoError(t, err)

	// Our lease expired and another instance took the key.
	require.NoError(t, mr.Set(key, "someone-else"))
	release()

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisSlotLockerWaitsForRelease(t *testing.T) {
	locker, _ := newRedisLocker(t, time.Second)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "P1", "2025-06-10")
	require.NoError(t, err)
	go func() {
		time.Sleep(100 * time.Millisecond)
		release()
	}()

	second, err := locker.Acquire(ctx, "P1", "2025-06-10")
	require.NoError(t, err)
	second()
}

func TestLocalSlotLocker(t *testing.T) {
	locker := NewLocalSlotLocker(50 * time.Millisecond)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "P1", "2025-06-10")
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "P1", "2025-06-10")
	assert.True(t, errors.Is(err, utils.ErrSlotBusy))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = locker.Acquire(cancelled, "P1", "2025-06-10")
	assert.True(t, errors.Is(err, utils.ErrSlotBusy))
	assert.True(t, errors.Is(err, context.Canceled))

	release()
	release()

	again, err := locker.Acquire(ctx, "P1", "2025-06-10")
	require.NoError(t, err)
	again()

	locker.mu.Lock()
	assert.Empty(t, locker.slots, "idle keys are dropped")
	locker.mu.Unlock()
}
