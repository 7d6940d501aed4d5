package lock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithLockSerializesPerUser(t *testing.T) {
	ul := NewUserLock()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ul.WithLock(1, func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestLockPairOpposingOrdersDoNotDeadlock(t *testing.T) {
	ul := NewUserLock()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ul.LockPair(1, 2)
			ul.UnlockPair(1, 2)
		}()
		go func() {
			defer wg.Done()
			ul.LockPair(2, 1)
			ul.UnlockPair(2, 1)
		}()
	}
	wg.Wait()
}

func TestLockPairSameUserLocksOnce(t *testing.T) {
	ul := NewUserLock()

	done := make(chan struct{})
	go func() {
		// A self-targeted command locks the pair with equal IDs; the
		// lock must be taken a single time and released cleanly.
		ul.LockPair(7, 7)
		ul.UnlockPair(7, 7)
		ul.Lock(7)
		ul.Unlock(7)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("LockPair with equal IDs deadlocked")
	}
}

func TestDistinctUsersLockIndependently(t *testing.T) {
	ul := NewUserLock()
	ul.Lock(1)
	defer ul.Unlock(1)

	done := make(chan struct{})
	go func() {
		ul.Lock(2)
		ul.Unlock(2)
		close(done)
	}()
	<-done
}
