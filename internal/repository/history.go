package repository

import (
	"sync"

	"github.com/rs/zerolog/log"

	"shin-chat-bot/internal/model"
	"shin-chat-bot/internal/storage"
)

// HistoryRepository handles per-chat conversation history persistence
// (chats_data.json). The on-disk document is a single-element array
// wrapping a map from chat-id string to entry list; the wrapper is kept
// for compatibility with existing data files.
type HistoryRepository struct {
	mu      sync.Mutex
	path    string
	chats   []map[string][]model.Entry
	persona string
	limit   int
}

// NewHistoryRepository loads the chat history document from path.
// persona is the fixed system entry content seeded at index 0 of every
// history; limit caps the number of retained non-system entries.
func NewHistoryRepository(path, persona string, limit int) *HistoryRepository {
	r := &HistoryRepository{
		path:    path,
		persona: persona,
		limit:   limit,
	}
	if err := storage.Load(path, &r.chats); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to load chat histories, starting empty")
	}
	if len(r.chats) == 0 || r.chats[0] == nil {
		r.chats = []map[string][]model.Entry{{}}
	}
	return r
}

// Ensure returns the chat's history, seeding or resetting it to just the
// persona entry when the stored first entry does not match the expected
// one. The reset is self-healing but discards the prior history.
func (r *HistoryRepository) Ensure(chatID int64) []model.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyEntries(r.ensureLocked(chatID))
}

// Append adds a turn to the chat's history and persists the document.
// While the history exceeds limit+1 entries the oldest non-system entry
// (index 1) is dropped, one entry at a time.
func (r *HistoryRepository) Append(chatID int64, entry model.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := append(r.ensureLocked(chatID), entry)
	for len(history) > r.limit+1 {
		history = append(history[:1], history[2:]...)
	}
	r.chats[0][model.UserKey(chatID)] = history
	r.saveLocked()
}

// Entries returns a copy of the chat's current history.
func (r *HistoryRepository) Entries(chatID int64) []model.Entry {
	return r.Ensure(chatID)
}

func (r *HistoryRepository) ensureLocked(chatID int64) []model.Entry {
	key := model.UserKey(chatID)
	history := r.chats[0][key]
	if len(history) == 0 || !history[0].IsSystem() || history[0].Content != r.persona {
		history = []model.Entry{model.SystemEntry(r.persona)}
	}
	r.chats[0][key] = history
	return history
}

func (r *HistoryRepository) saveLocked() {
	if err := storage.Save(r.path, r.chats); err != nil {
		log.Error().Err(err).Str("path", r.path).Msg("Failed to save chat histories")
	}
}

func copyEntries(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	copy(out, entries)
	return out
}
