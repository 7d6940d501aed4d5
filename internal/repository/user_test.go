package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesZeroRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users_data.json")
	repo := NewUserRepository(path)

	rec := repo.Ensure(42)
	assert.Zero(t, rec.Coin)
	assert.Zero(t, rec.ProtectUntil)
	assert.Zero(t, rec.LastClaim)

	// Creation persists immediately.
	_, err := os.Stat(path)
	require.NoError(t, err)

	// Idempotent: a second Ensure sees the same record.
	repo.ChangeCoin(42, 10)
	rec = repo.Ensure(42)
	assert.Equal(t, int64(10), rec.Coin)
}

func TestChangeCoinClampsAtZero(t *testing.T) {
	repo := NewUserRepository(filepath.Join(t.TempDir(), "users_data.json"))

	assert.Equal(t, int64(100), repo.ChangeCoin(1, 100))
	assert.Equal(t, int64(0), repo.ChangeCoin(1, -500), "over-debit floors at zero")
	assert.Equal(t, int64(25), repo.ChangeCoin(1, 25))
}

func TestProtection(t *testing.T) {
	repo := NewUserRepository(filepath.Join(t.TempDir(), "users_data.json"))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	until := repo.SetProtection(1, 2)
	assert.Equal(t, now.Unix()+2*86400, until)
	assert.True(t, repo.IsProtected(1))

	// Just before expiry the protection still holds, after it is gone.
	repo.now = func() time.Time { return now.Add(2*24*time.Hour - time.Second) }
	assert.True(t, repo.IsProtected(1))
	repo.now = func() time.Time { return now.Add(2*24*time.Hour + time.Second) }
	assert.False(t, repo.IsProtected(1))
}

func TestLedgerSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users_data.json")

	repo := NewUserRepository(path)
	repo.ChangeCoin(7, 300)
	repo.SetLastClaim(7, 1234)

	reloaded := NewUserRepository(path)
	rec := reloaded.Get(7)
	assert.Equal(t, int64(300), rec.Coin)
	assert.Equal(t, int64(1234), rec.LastClaim)
}

func TestCorruptLedgerYieldsEmptyDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	repo := NewUserRepository(path)
	assert.Zero(t, repo.Get(7).Coin)
}
