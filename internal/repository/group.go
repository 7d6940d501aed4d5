package repository

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"shin-chat-bot/internal/model"
	"shin-chat-bot/internal/storage"
)

// GroupRepository handles the group registry (groups_list.json).
type GroupRepository struct {
	mu     sync.Mutex
	path   string
	groups map[string]model.GroupInfo
	now    func() time.Time
}

// NewGroupRepository loads the group registry document from path.
func NewGroupRepository(path string) *GroupRepository {
	r := &GroupRepository{
		path:   path,
		groups: make(map[string]model.GroupInfo),
		now:    time.Now,
	}
	if err := storage.Load(path, &r.groups); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to load group registry, starting empty")
	}
	if r.groups == nil {
		r.groups = make(map[string]model.GroupInfo)
	}
	return r
}

// Record stores or overwrites the registry entry for a chat and
// persists the document. Last write wins.
func (r *GroupRepository) Record(chatID int64, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.groups[model.UserKey(chatID)] = model.GroupInfo{
		ID:      chatID,
		Title:   title,
		SavedAt: r.now().Unix(),
	}
	if err := storage.Save(r.path, r.groups); err != nil {
		log.Error().Err(err).Str("path", r.path).Msg("Failed to save group registry")
	}
}

// Get returns the registry entry for a chat, if present.
func (r *GroupRepository) Get(chatID int64) (model.GroupInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.groups[model.UserKey(chatID)]
	return info, ok
}
