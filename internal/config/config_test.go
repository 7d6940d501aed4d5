package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "shin", cfg.Chat.Trigger)
	assert.Equal(t, 6, cfg.Chat.MaxAgeSeconds)
	assert.Equal(t, 30, cfg.Chat.HistoryLimit)
	assert.NotEmpty(t, cfg.Chat.Persona)
	assert.NotEmpty(t, cfg.Chat.ReplyPrompt)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, "google/gemini-2.5-flash-lite", cfg.LLM.Model)
	assert.Empty(t, cfg.Bot.Token, "no baked-in token fallback")
	assert.Empty(t, cfg.Admin.IDs)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CHAT_TRIGGER", "robo")
	t.Setenv("STORAGE_DIR", "/tmp/botdata")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "robo", cfg.Chat.Trigger)
	assert.Equal(t, "/tmp/botdata", cfg.Storage.Dir)
}

func TestStorageFilePaths(t *testing.T) {
	s := StorageConfig{Dir: "data"}
	assert.Equal(t, "data/users_data.json", s.UsersFile())
	assert.Equal(t, "data/chats_data.json", s.ChatsFile())
	assert.Equal(t, "data/groups_list.json", s.GroupsFile())
}

func TestIsAdmin(t *testing.T) {
	cfg := &Config{Admin: AdminConfig{IDs: []int64{10, 20}}}
	assert.True(t, cfg.IsAdmin(10))
	assert.False(t, cfg.IsAdmin(30))

	empty := &Config{}
	assert.False(t, empty.IsAdmin(10), "empty admin list grants nobody")
}
