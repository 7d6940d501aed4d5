// Package model defines the persisted data records for the chat bot.
package model

import "strconv"

// UserRecord holds a user's economic state. Records are keyed by the
// decimal string form of the Telegram user ID and created lazily with
// all fields zero on first reference.
type UserRecord struct {
	Coin         int64 `json:"coin"`
	ProtectUntil int64 `json:"protect_until"`
	LastClaim    int64 `json:"last_claim"`
}

// GroupInfo records a chat the bot has seen a message in.
// It is overwritten on every message in that chat (last-write-wins).
type GroupInfo struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	SavedAt int64  `json:"saved_at"`
}

// UserKey converts a Telegram user or chat ID to its document key.
func UserKey(id int64) string {
	return strconv.FormatInt(id, 10)
}
