package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shin-chat-bot/internal/model"
)

const persona = "you are shin"

func newHistory(t *testing.T, limit int) (*HistoryRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chats_data.json")
	return NewHistoryRepository(path, persona, limit), path
}

func TestEnsureSeedsPersona(t *testing.T) {
	repo, _ := newHistory(t, 30)

	entries := repo.Ensure(1)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsSystem())
	assert.Equal(t, persona, entries[0].Content)
}

func TestAppendEvictsOldestOneAtATime(t *testing.T) {
	repo, _ := newHistory(t, 30)

	for i := 1; i <= 32; i++ {
		repo.Append(1, model.TextEntry(fmt.Sprintf("msg %d", i)))
	}

	entries := repo.Entries(1)
	require.Len(t, entries, 31, "system entry + cap")
	assert.True(t, entries[0].IsSystem(), "system entry never evicted")
	assert.Equal(t, "msg 3", entries[1].Content, "two index-1 evictions drop msg 1 and msg 2")
	assert.Equal(t, "msg 32", entries[30].Content)
}

func TestMismatchedPersonaResetsHistory(t *testing.T) {
	repo, path := newHistory(t, 30)
	repo.Append(1, model.TextEntry("old msg"))

	// Reload with a different persona: the stored first entry no longer
	// matches and the whole history resets to the new persona entry.
	repo = NewHistoryRepository(path, "someone else entirely", 30)
	entries := repo.Ensure(1)
	require.Len(t, entries, 1)
	assert.Equal(t, "someone else entirely", entries[0].Content)
}

func TestHistorySurvivesReload(t *testing.T) {
	repo, path := newHistory(t, 30)
	repo.Append(1, model.TextEntry("Maanav(1): hi shin"))
	repo.Append(1, model.AssistantEntry("kya re"))

	reloaded := NewHistoryRepository(path, persona, 30)
	entries := reloaded.Entries(1)
	require.Len(t, entries, 3)
	assert.Equal(t, "Maanav(1): hi shin", entries[1].Content)
	assert.True(t, entries[2].IsAssistant())
	assert.Equal(t, "kya re", entries[2].AssistantText())
}

func TestWireFormat(t *testing.T) {
	repo, path := newHistory(t, 30)
	repo.Append(1, model.TextEntry("Maanav(1): hi shin"))

	// The document is a one-element array wrapping the chat map; the
	// first history entry is an object, the rest are plain strings.
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc []map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc, 1)

	raw := doc[0]["1"]
	require.Len(t, raw, 2)
	assert.Equal(t, byte('{'), raw[0][0])
	assert.Equal(t, byte('"'), raw[1][0])
}

func TestCorruptHistoryYieldsEmptyDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats_data.json")
	require.NoError(t, os.WriteFile(path, []byte("]]]"), 0o644))

	repo := NewHistoryRepository(path, persona, 30)
	entries := repo.Ensure(1)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsSystem())
}
