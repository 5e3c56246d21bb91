package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestConcurrentBalanceSafetyProperty checks that read-modify-write cycles
// guarded by the lock end with the same balance as sequential execution.
func TestConcurrentBalanceSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialBalance := rapid.Int64Range(1000, 100000).Draw(t, "initialBalance")
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")

		amounts := make([]int64, numOps)
		expected := initialBalance
		for i := range amounts {
			amounts[i] = rapid.Int64Range(-500, 500).Draw(t, "amount")
			expected += amounts[i]
		}

		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")
		ul := NewUserLock()
		balance := initialBalance

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, amount := range amounts {
			go func(amount int64) {
				defer wg.Done()
				ul.Lock(userID)
				defer ul.Unlock(userID)
				current := balance
				balance = current + amount
			}(amount)
		}
		wg.Wait()

		if balance != expected {
			t.Fatalf("balance mismatch: expected %d, got %d", expected, balance)
		}
		if ul.Len() != 0 {
			t.Fatalf("expected no tracked keys after release, got %d", ul.Len())
		}
	})
}

// TestMultipleUsersIndependentLocksProperty checks that keys do not interfere.
func TestMultipleUsersIndependentLocksProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numUsers := rapid.IntRange(2, 10).Draw(t, "numUsers")
		opsPerUser := rapid.IntRange(5, 20).Draw(t, "opsPerUser")

		ul := NewUserLock()
		balances := make(map[int64]*int64, numUsers)
		for i := 1; i <= numUsers; i++ {
			b := int64(0)
			balances[int64(i)] = &b
		}

		var wg sync.WaitGroup
		wg.Add(numUsers * opsPerUser)
		for uid := int64(1); uid <= int64(numUsers); uid++ {
			for j := 0; j < opsPerUser; j++ {
				go func(uid int64) {
					defer wg.Done()
					_ = ul.WithLock(uid, func() error {
						*balances[uid] += 10
						return nil
					})
				}(uid)
			}
		}
		wg.Wait()

		for uid, b := range balances {
			if *b != int64(opsPerUser)*10 {
				t.Fatalf("user %d: expected %d, got %d", uid, opsPerUser*10, *b)
			}
		}
	})
}

// TestTryLockSingleWinnerProperty checks that concurrent TryLock calls on a
// held key all fail, and that the key is free again after release.
func TestTryLockSingleWinnerProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")
		numAttempts := rapid.IntRange(5, 20).Draw(t, "numAttempts")

		ul := NewUserLock()
		ul.Lock(userID)

		var successes atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numAttempts)
		for i := 0; i < numAttempts; i++ {
			go func() {
				defer wg.Done()
				if ul.TryLock(userID) {
					successes.Add(1)
					ul.Unlock(userID)
				}
			}()
		}
		wg.Wait()
		ul.Unlock(userID)

		if successes.Load() != 0 {
			t.Fatalf("TryLock succeeded %d times on a held key", successes.Load())
		}
		if !ul.TryLock(userID) {
			t.Fatal("lock should be available after release")
		}
		ul.Unlock(userID)
	})
}

// TestLockUnlockSymmetryProperty checks that balanced cycles leave nothing behind.
func TestLockUnlockSymmetryProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")
		cycles := rapid.IntRange(1, 50).Draw(t, "cycles")

		ul := NewUserLock()
		for i := 0; i < cycles; i++ {
			ul.Lock(userID)
			ul.Unlock(userID)
		}

		if ul.IsLocked(userID) || ul.Len() != 0 {
			t.Fatal("lock should be released and forgotten after symmetric cycles")
		}
	})
}

func TestWithLockContext_Timeout(t *testing.T) {
	ul := NewUserLock()
	ul.Lock(7)
	defer ul.Unlock(7)

	called := false
	err := ul.WithLockContext(context.Background(), 7, 20*time.Millisecond, func() error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, called)
}

func TestWithLockContext_ParentCancelled(t *testing.T) {
	ul := NewUserLock()
	ul.Lock(7)
	defer ul.Unlock(7)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ul.WithLockContext(ctx, 7, time.Second, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnlockWithoutLockPanics(t *testing.T) {
	ul := NewUserLock()
	assert.Panics(t, func() { ul.Unlock(1) })
}
