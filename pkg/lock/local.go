package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// LocalLocker is an in-process keyed mutex for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
	opts  Options
}

type slot struct {
	held chan struct{}
	refs int
}

func NewLocalLocker(opts Options) *LocalLocker {
	return &LocalLocker{slots: map[string]*slot{}, opts: opts.withDefaults()}
}

func (l *LocalLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	s := l.ref(key)
	defer l.unref(key)

	timer := time.NewTimer(l.opts.Wait)
	defer timer.Stop()
	select {
	case s.held <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrBusy
	}
	defer func() { <-s.held }()
	return fn(ctx)
}

func (l *LocalLocker) TryWithLock(ctx context.Context, key string, fn func(context.Context) error) (bool, error) {
	if fn == nil {
		return false, errors.New("lock: callback not provided")
	}
	s := l.ref(key)
	defer l.unref(key)

	select {
	case s.held <- struct{}{}:
	default:
		return false, nil
	}
	defer func() { <-s.held }()
	return true, fn(ctx)
}

func (l *LocalLocker) ref(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{held: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		return
	}
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
