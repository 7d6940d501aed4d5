// Package repository provides flat-file data access implementations.
// Each repository owns one JSON document, guards it with a mutex and
// rewrites the whole file after every mutation.
package repository

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"shin-chat-bot/internal/model"
	"shin-chat-bot/internal/storage"
)

// UserRepository handles user ledger persistence (users_data.json).
type UserRepository struct {
	mu    sync.Mutex
	path  string
	users map[string]*model.UserRecord
	now   func() time.Time
}

// NewUserRepository loads the user ledger document from path, starting
// from an empty ledger when the file is missing or corrupt.
func NewUserRepository(path string) *UserRepository {
	r := &UserRepository{
		path:  path,
		users: make(map[string]*model.UserRecord),
		now:   time.Now,
	}
	if err := storage.Load(path, &r.users); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to load user ledger, starting empty")
	}
	if r.users == nil {
		r.users = make(map[string]*model.UserRecord)
	}
	return r
}

// Ensure returns the record for userID, creating the zero record and
// persisting it on first reference. Idempotent.
func (r *UserRepository) Ensure(userID int64) model.UserRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.ensureLocked(userID)
}

// Get returns a copy of the user's record, creating it if absent.
func (r *UserRepository) Get(userID int64) model.UserRecord {
	return r.Ensure(userID)
}

// ChangeCoin adds delta (which may be negative) to the user's balance,
// clamping the result at zero, and returns the new balance. A debit
// larger than the balance silently floors instead of failing.
func (r *UserRepository) ChangeCoin(userID int64, delta int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.ensureLocked(userID)
	rec.Coin += delta
	if rec.Coin < 0 {
		rec.Coin = 0
	}
	r.saveLocked()
	return rec.Coin
}

// SetProtection sets the user's protection expiry to now + days and
// returns the expiry timestamp.
func (r *UserRepository) SetProtection(userID int64, days int) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.ensureLocked(userID)
	rec.ProtectUntil = r.now().Unix() + int64(days)*86400
	r.saveLocked()
	return rec.ProtectUntil
}

// IsProtected reports whether the user's protection window is active.
func (r *UserRepository) IsProtected(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.ensureLocked(userID)
	return rec.ProtectUntil > r.now().Unix()
}

// SetLastClaim records the timestamp of a successful daily claim.
func (r *UserRepository) SetLastClaim(userID int64, ts int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.ensureLocked(userID)
	rec.LastClaim = ts
	r.saveLocked()
}

// ensureLocked returns the live record, creating and persisting it when
// the user is referenced for the first time. Caller must hold mu.
func (r *UserRepository) ensureLocked(userID int64) *model.UserRecord {
	key := model.UserKey(userID)
	rec, ok := r.users[key]
	if !ok {
		rec = &model.UserRecord{}
		r.users[key] = rec
		r.saveLocked()
	}
	return rec
}

// saveLocked flushes the whole ledger. Persistence failures are logged
// and swallowed; the in-memory state stands. Caller must hold mu.
func (r *UserRepository) saveLocked() {
	if err := storage.Save(r.path, r.users); err != nil {
		log.Error().Err(err).Str("path", r.path).Msg("Failed to save user ledger")
	}
}
