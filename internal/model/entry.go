package model

import (
	"encoding/json"
	"strings"
)

// AssistantPrefix marks a stored history entry as a prior bot reply.
const AssistantPrefix = "assistant:"

// Entry is one turn in a chat's stored history. The first entry of every
// history is the persona entry and is serialized as a
// {"role":"system","content":...} object; all later entries are plain
// strings, either "Name(id): text" lines or "assistant: reply" lines.
type Entry struct {
	Role    string
	Content string
}

// SystemEntry builds the persona entry placed at index 0 of a history.
func SystemEntry(persona string) Entry {
	return Entry{Role: "system", Content: persona}
}

// TextEntry builds a plain string turn.
func TextEntry(text string) Entry {
	return Entry{Content: text}
}

// AssistantEntry builds a stored bot-reply turn.
func AssistantEntry(reply string) Entry {
	return Entry{Content: AssistantPrefix + " " + reply}
}

// IsSystem reports whether the entry is a persona entry.
func (e Entry) IsSystem() bool {
	return e.Role == "system"
}

// IsAssistant reports whether the entry holds a prior bot reply.
func (e Entry) IsAssistant() bool {
	return strings.HasPrefix(e.Content, AssistantPrefix)
}

// AssistantText returns the reply text with the assistant prefix stripped.
func (e Entry) AssistantText() string {
	return strings.TrimSpace(strings.TrimPrefix(e.Content, AssistantPrefix))
}

// entryObject is the wire form of the persona entry.
type entryObject struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MarshalJSON writes the persona entry as an object and every other entry
// as a bare string, matching the on-disk document layout.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Role != "" {
		return json.Marshal(entryObject{Role: e.Role, Content: e.Content})
	}
	return json.Marshal(e.Content)
}

// UnmarshalJSON accepts either wire form.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Entry{Content: s}
		return nil
	}
	var obj entryObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = Entry{Role: obj.Role, Content: obj.Content}
	return nil
}
