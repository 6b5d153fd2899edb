// Package lock serializes work on a key across goroutines or instances.
package lock

import (
	"context"
	"time"

	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
)

const (
	defaultTTL   = 10 * time.Second
	defaultWait  = 3 * time.Second
	defaultRetry = 25 * time.Millisecond
)

// ErrBusy is returned when a lock could not be acquired within the wait
// budget. It carries CodeBusy so handlers answer 409 with retry semantics.
var ErrBusy = pkgerrors.New(pkgerrors.CodeBusy, "resource is locked by a concurrent request")

// Locker runs fn while holding the lock for key.
type Locker interface {
	// WithLock waits up to the configured budget for the lock.
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
	// TryWithLock runs fn only if the lock is free right now. It reports
	// whether fn ran.
	TryWithLock(ctx context.Context, key string, fn func(context.Context) error) (bool, error)
}

// Options tunes lock timing. Zero values fall back to defaults.
type Options struct {
	// TTL bounds how long a crashed holder can keep a Redis lock.
	TTL time.Duration
	// Wait is how long WithLock keeps retrying before returning ErrBusy.
	Wait time.Duration
	// Retry is the pause between attempts.
	Retry time.Duration
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = defaultTTL
	}
	if o.Wait <= 0 {
		o.Wait = defaultWait
	}
	if o.Retry <= 0 {
		o.Retry = defaultRetry
	}
	return o
}
