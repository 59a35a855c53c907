// internal/lock/lock.go

// Package lock provides per-key mutual exclusion with a lease. The Redis
// implementation is shared between service replicas; the local one only
// covers a single process.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrNotAcquired is returned when the key is held by someone else.
	ErrNotAcquired = errors.New("lock already held")
	// ErrLeaseLost is returned by Extend when the lease expired and the key
	// no longer carries this holder's token.
	ErrLeaseLost = errors.New("lock lease lost")
)

// Lease is a held lock. Release is safe to call more than once.
// Extend pushes the expiry to ttl from now while the lease is still ours.
type Lease interface {
	Extend(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}

// Locker hands out leases that expire after ttl even if never released.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// releaseScript deletes the key only if it still carries our token.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// extendScript renews the expiry only if the key still carries our token.
const extendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`

type redisCommander interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd
}

// RedisLocker implements Locker with SET NX PX and a compare-and-delete release.
type RedisLocker struct {
	client redisCommander
	prefix string
}

func NewRedisLocker(client redis.UniversalClient, prefix string) *RedisLocker {
	return newRedisLockerFromCommander(client, prefix)
}

func newRedisLockerFromCommander(client redisCommander, prefix string) *RedisLocker {
	if prefix == "" {
		prefix = "github-portfolio"
	}
	return &RedisLocker{client: client, prefix: prefix}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	token := uuid.NewString()
	fullKey := l.prefix + ":" + key
	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", fullKey, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &redisLease{client: l.client, key: fullKey, token: token}, nil
}

type redisLease struct {
	client redisCommander
	key    string
	token  string
	once   sync.Once
}

func (r *redisLease) Extend(ctx context.Context, ttl time.Duration) error {
	n, err := r.client.Eval(ctx, extendScript, []string{r.key}, r.token, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("extend lock %s: %w", r.key, err)
	}
	if n == 0 {
		return ErrLeaseLost
	}
	return nil
}

func (r *redisLease) Release(ctx context.Context) error {
	var err error
	r.once.Do(func() {
		if evalErr := r.client.Eval(ctx, releaseScript, []string{r.key}, r.token).Err(); evalErr != nil {
			err = fmt.Errorf("release lock %s: %w", r.key, evalErr)
		}
	})
	return err
}

// LocalLocker implements Locker in process memory.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]localEntry
	now  func() time.Time
}

type localEntry struct {
	token     string
	expiresAt time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]localEntry), now: time.Now}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.held[key]; ok && now.Before(e.expiresAt) {
		return nil, ErrNotAcquired
	}
	token := uuid.NewString()
	l.held[key] = localEntry{token: token, expiresAt: now.Add(ttl)}
	return &localLease{locker: l, key: key, token: token}, nil
}

type localLease struct {
	locker *LocalLocker
	key    string
	token  string
}

func (r *localLease) Extend(_ context.Context, ttl time.Duration) error {
	r.locker.mu.Lock()
	defer r.locker.mu.Unlock()
	e, ok := r.locker.held[r.key]
	if !ok || e.token != r.token {
		return ErrLeaseLost
	}
	e.expiresAt = r.locker.now().Add(ttl)
	r.locker.held[r.key] = e
	return nil
}

func (r *localLease) Release(context.Context) error {
	r.locker.mu.Lock()
	defer r.locker.mu.Unlock()
	if e, ok := r.locker.held[r.key]; ok && e.token == r.token {
		delete(r.locker.held, r.key)
	}
	return nil
}
