// Package lock provides a keyed mutex so that work for one user id runs
// one at a time while different users proceed in parallel.
package lock

import (
	"context"
	"sync"
	"time"
)

// userMutex is a per-key mutex. refs counts holders and waiters so the
// entry can be dropped once nobody references it.
type userMutex struct {
	mu   chan struct{}
	refs int
}

// UserLock serializes work per user id.
type UserLock struct {
	mu    sync.Mutex
	locks map[int64]*userMutex
}

// NewUserLock creates an empty UserLock.
func NewUserLock() *UserLock {
	return &UserLock{locks: make(map[int64]*userMutex)}
}

// acquireRef returns the mutex for userID with its reference count bumped.
func (ul *UserLock) acquireRef(userID int64) *userMutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	m, ok := ul.locks[userID]
	if !ok {
		m = &userMutex{mu: make(chan struct{}, 1)}
		ul.locks[userID] = m
	}
	m.refs++
	return m
}

// releaseRef drops one reference and forgets the entry when unused.
func (ul *UserLock) releaseRef(userID int64, m *userMutex) {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	m.refs--
	if m.refs == 0 {
		delete(ul.locks, userID)
	}
}

// Lock blocks until the lock for userID is held.
func (ul *UserLock) Lock(userID int64) {
	m := ul.acquireRef(userID)
	m.mu <- struct{}{}
}

// Unlock releases the lock for userID. Unlocking a key that is not locked panics,
// matching sync.Mutex.
func (ul *UserLock) Unlock(userID int64) {
	ul.mu.Lock()
	m, ok := ul.locks[userID]
	ul.mu.Unlock()
	if !ok {
		panic("lock: unlock of unlocked user")
	}
	select {
	case <-m.mu:
	default:
		panic("lock: unlock of unlocked user")
	}
	ul.releaseRef(userID, m)
}

// TryLock acquires the lock without blocking and reports whether it did.
func (ul *UserLock) TryLock(userID int64) bool {
	m := ul.acquireRef(userID)
	select {
	case m.mu <- struct{}{}:
		return true
	default:
		ul.releaseRef(userID, m)
		return false
	}
}

// LockContext waits for the lock until ctx is done.
func (ul *UserLock) LockContext(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := ul.acquireRef(userID)
	select {
	case m.mu <- struct{}{}:
		return nil
	case <-ctx.Done():
		ul.releaseRef(userID, m)
		return ctx.Err()
	}
}

// WithLock runs fn while holding the lock for userID.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// WithLockContext runs fn while holding the lock for userID, giving up with
// ErrLockTimeout if the lock is not obtained within timeout.
func (ul *UserLock) WithLockContext(ctx context.Context, userID int64, timeout time.Duration, fn func() error) error {
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := ul.LockContext(lockCtx, userID); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrLockTimeout
	}
	defer ul.Unlock(userID)
	return fn()
}

// IsLocked reports whether userID is currently held. The answer may be stale
// by the time the caller reads it.
func (ul *UserLock) IsLocked(userID int64) bool {
	ul.mu.Lock()
	m, ok := ul.locks[userID]
	ul.mu.Unlock()
	return ok && len(m.mu) == 1
}

// Len returns the number of keys currently tracked.
func (ul *UserLock) Len() int {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	return len(ul.locks)
}
