// Package llm defines the language-model client used by the responder.
package llm

import "context"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn of a prompt.
type Message struct {
	Role    string
	Content string
}

// Client generates a reply for an ordered list of prompt turns.
type Client interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}
