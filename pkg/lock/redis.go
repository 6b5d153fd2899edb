package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/textilehouse-backend/pkg/instance"
)

// redisStore is the subset of pkg/redis.Client the locks need.
type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	CompareAndDelete(ctx context.Context, key, value string) (bool, error)
}

// RedisLocker is a Locker shared by every instance talking to the same Redis.
// Each acquisition writes a unique token and release only deletes the key
// while it still holds that token.
type RedisLocker struct {
	store   redisStore
	keyFunc func(string) string
	opts    Options
}

// NewRedisLocker builds a RedisLocker. keyFunc maps a caller key to the
// Redis key; nil uses the key unchanged.
func NewRedisLocker(store redisStore, keyFunc func(string) string, opts Options) (*RedisLocker, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	if keyFunc == nil {
		keyFunc = func(key string) string { return key }
	}
	return &RedisLocker{store: store, keyFunc: keyFunc, opts: opts.withDefaults()}, nil
}

func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	redisKey := l.keyFunc(key)
	token := newToken()
	deadline := time.NewTimer(l.opts.Wait)
	defer deadline.Stop()

	for {
		ok, err := l.store.SetNX(ctx, redisKey, token, l.opts.TTL)
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", redisKey, err)
		}
		if ok {
			defer l.release(redisKey, token)
			return fn(ctx)
		}
		retry := time.NewTimer(l.opts.Retry)
		select {
		case <-ctx.Done():
			retry.Stop()
			return ctx.Err()
		case <-deadline.C:
			retry.Stop()
			return ErrBusy
		case <-retry.C:
		}
	}
}

func (l *RedisLocker) TryWithLock(ctx context.Context, key string, fn func(context.Context) error) (bool, error) {
	if fn == nil {
		return false, errors.New("lock: callback not provided")
	}
	redisKey := l.keyFunc(key)
	token := newToken()
	ok, err := l.store.SetNX(ctx, redisKey, token, l.opts.TTL)
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", redisKey, err)
	}
	if !ok {
		return false, nil
	}
	defer l.release(redisKey, token)
	return true, fn(ctx)
}

// release uses a fresh context so a cancelled request still frees its lock.
func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = l.store.CompareAndDelete(ctx, key, token)
}

// Mutex is a single-key Redis lock held across a long cycle, such as one
// cron run. It is not safe for concurrent use.
type Mutex struct {
	store redisStore
	key   string
	ttl   time.Duration
	owner string
}

// NewMutex constructs a Redis-backed mutex for key.
func NewMutex(store redisStore, key string, ttl time.Duration) (*Mutex, error) {
	if store == nil {
		return nil, errors.New("redis client required for lock")
	}
	if key == "" {
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Mutex{store: store, key: key, ttl: ttl}, nil
}

// Acquire tries to own the lock for the configured TTL.
func (m *Mutex) Acquire(ctx context.Context) (bool, error) {
	owner := newToken()
	ok, err := m.store.SetNX(ctx, m.key, owner, m.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		m.owner = owner
	}
	return ok, nil
}

// Release frees the lock only if this mutex still owns it.
func (m *Mutex) Release(ctx context.Context) error {
	if m.owner == "" {
		return nil
	}
	if _, err := m.store.CompareAndDelete(ctx, m.key, m.owner); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	m.owner = ""
	return nil
}

func newToken() string {
	return instance.GetID() + ":" + uuid.NewString()
}
