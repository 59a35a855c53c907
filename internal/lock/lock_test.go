// internal/lock/lock_test.go
package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedisClient struct {
	mu       sync.Mutex
	values   map[string]string
	ttls     map[string]time.Duration
	evals    int
	setNXErr error
}

func newFakeRedisClient() *fakeRedisClient {
	return &fakeRedisClient{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeRedisClient) SetNX(_ context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setNXErr != nil {
		return redis.NewBoolResult(false, c.setNXErr)
	}
	if _, ok := c.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	c.values[key] = value.(string)
	c.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (c *fakeRedisClient) Eval(_ context.Context, script string, keys []string, args ...any) *redis.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if script == extendScript {
		if c.values[keys[0]] != args[0].(string) {
			return redis.NewCmdResult(int64(0), nil)
		}
		c.ttls[keys[0]] = time.Duration(args[1].(int64)) * time.Millisecond
		return redis.NewCmdResult(int64(1), nil)
	}
	c.evals++
	if c.values[keys[0]] == args[0].(string) {
		delete(c.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire fails until release", func(t *testing.T) {
		client := newFakeRedisClient()
		locker := newRedisLockerFromCommander(client, "test")

		lease, err := locker.Acquire(ctx, "sync:account:1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, client.ttls["test:sync:account:1"])

		_, err = locker.Acquire(ctx, "sync:account:1", time.Minute)
		assert.ErrorIs(t, err, ErrNotAcquired)

		_, err = locker.Acquire(ctx, "sync:account:2", time.Minute)
		assert.NoError(t, err, "other keys are independent")

		require.NoError(t, lease.Release(ctx))
		require.NoError(t, lease.Release(ctx))
		assert.Equal(t, 1, client.evals, "release runs once")

		_, err = locker.Acquire(ctx, "sync:account:1", time.Minute)
		assert.NoError(t, err)
	})

	t.Run("release does not delete a lock taken over by another holder", func(t *testing.T) {
		client := newFakeRedisClient()
		locker := newRedisLockerFromCommander(client, "test")

		lease, err := locker.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)
		client.values["test:k"] = "someone-else"

		require.NoError(t, lease.Release(ctx))
		assert.Equal(t, "someone-else", client.values["test:k"])
	})

	t.Run("extend renews only a lease still held", func(t *testing.T) {
		client := newFakeRedisClient()
		locker := newRedisLockerFromCommander(client, "test")

		lease, err := locker.Acquire(ctx, "k", time.Minute)
		require.NoError(t, err)

		require.NoError(t, lease.Extend(ctx, 5*time.Minute))
		assert.Equal(t, 5*time.Minute, client.ttls["test:k"])

		client.values["test:k"] = "someone-else"
		assert.ErrorIs(t, lease.Extend(ctx, 5*time.Minute), ErrLeaseLost)
	})

	t.Run("redis errors are wrapped", func(t *testing.T) {
		client := newFakeRedisClient()
		client.setNXErr = errors.New("connection refused")
		locker := newRedisLockerFromCommander(client, "")

		_, err := locker.Acquire(ctx, "k", time.Minute)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotAcquired)
		assert.Contains(t, err.Error(), "github-portfolio:k")
	})
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	locker := NewLocalLocker()
	locker.now = func() time.Time { return current }

	lease, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, lease.Release(ctx))
	second, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	third, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err, "expired leases can be taken over")

	require.NoError(t, second.Release(ctx))
	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired, "stale lease must not release the new holder")

	require.NoError(t, third.Release(ctx))
}

func TestLocalLocker_Extend(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	locker := NewLocalLocker()
	locker.now = func() time.Time { return current }

	lease, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	current = current.Add(50 * time.Second)
	require.NoError(t, lease.Extend(ctx, time.Minute))

	current = current.Add(50 * time.Second)
	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrNotAcquired, "an extended lease outlives its first ttl")

	current = current.Add(time.Minute)
	other, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.ErrorIs(t, lease.Extend(ctx, time.Minute), ErrLeaseLost)
	require.NoError(t, other.Release(ctx))
}
