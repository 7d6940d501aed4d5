// Package lock provides per-user locking for balance operations.
// Handlers hold a user's lock across the read-modify-write cycle of an
// economy command so concurrent updates to the same ledger record
// cannot interleave.
package lock

import "sync"

// userMutex wraps a mutex stored per user ID.
type userMutex struct {
	mu sync.Mutex
}

// UserLock provides per-user mutual exclusion.
type UserLock struct {
	locks sync.Map // map[int64]*userMutex
	pool  sync.Pool
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{
		pool: sync.Pool{
			New: func() any {
				return &userMutex{}
			},
		},
	}
}

// getLock retrieves or creates the mutex for a user ID.
func (ul *UserLock) getLock(userID int64) *userMutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*userMutex)
	}

	newLock := ul.pool.Get().(*userMutex)
	actual, loaded := ul.locks.LoadOrStore(userID, newLock)
	if loaded {
		ul.pool.Put(newLock)
	}
	return actual.(*userMutex)
}

// Lock acquires the lock for a user.
func (ul *UserLock) Lock(userID int64) {
	ul.getLock(userID).mu.Lock()
}

// Unlock releases the lock for a user.
func (ul *UserLock) Unlock(userID int64) {
	if v, ok := ul.locks.Load(userID); ok {
		v.(*userMutex).mu.Unlock()
	}
}

// WithLock executes fn while holding the user's lock.
func (ul *UserLock) WithLock(userID int64, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// LockPair acquires the locks for two users in a stable order so that
// opposing transfers cannot deadlock. Equal IDs take the lock once.
func (ul *UserLock) LockPair(a, b int64) {
	if a == b {
		ul.Lock(a)
		return
	}
	if a > b {
		a, b = b, a
	}
	ul.Lock(a)
	ul.Lock(b)
}

// UnlockPair releases the locks taken by LockPair.
func (ul *UserLock) UnlockPair(a, b int64) {
	if a == b {
		ul.Unlock(a)
		return
	}
	if a > b {
		a, b = b, a
	}
	ul.Unlock(b)
	ul.Unlock(a)
}
