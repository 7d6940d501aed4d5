package service

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog/log"

	"shin-chat-bot/internal/llm"
	"shin-chat-bot/internal/repository"
)

// apologyReply is returned whenever the LLM call fails.
const apologyReply = "sorry, error with LLM."

// cannedReplies are used when no LLM client is configured.
var cannedReplies = []string{
	"kya bolta re? thoda saamne aa",
	"achha... batao kya chahiye",
	"thik hai, dekh raha hu",
	"tumse na ho payega 😏",
}

// Responder assembles prompts from chat history and produces replies,
// falling back to canned phrases when no LLM client is configured.
type Responder struct {
	history *repository.HistoryRepository
	client  llm.Client // nil means canned replies only
	pick    func(n int) int
}

// NewResponder creates a Responder. client may be nil.
func NewResponder(history *repository.HistoryRepository, client llm.Client) *Responder {
	return &Responder{
		history: history,
		client:  client,
		pick:    rand.Intn,
	}
}

// BuildPrompt returns the ordered prompt turns for a chat: a fresh
// system turn with the supplied prompt (overriding the stored persona
// turn), one turn per stored history entry, and the new user message
// as the final turn. Stored "assistant:" entries map to the assistant
// role; everything else maps to the user role with the raw stored
// string, name/id formatting included.
func (r *Responder) BuildPrompt(chatID int64, userMessage, systemPrompt string) []llm.Message {
	entries := r.history.Ensure(chatID)
	messages := make([]llm.Message, 0, len(entries)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, e := range entries[1:] {
		if e.IsAssistant() {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: e.AssistantText()})
		} else {
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: e.Content})
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})
	return messages
}

// Respond builds the prompt and produces a reply. It never returns an
// error: LLM failures become a fixed apology and a missing client
// yields a random canned phrase.
func (r *Responder) Respond(ctx context.Context, chatID int64, userMessage, systemPrompt string) string {
	if r.client == nil {
		return cannedReplies[r.pick(len(cannedReplies))]
	}

	messages := r.BuildPrompt(chatID, userMessage, systemPrompt)
	reply, err := r.client.Generate(ctx, messages)
	if err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("LLM call failed")
		return apologyReply
	}
	return reply
}
