package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"shin-chat-bot/internal/model"
	"shin-chat-bot/internal/repository"
	"shin-chat-bot/internal/service"
)

// ChatHandler handles free-text messages: it records the chat in the
// group registry, appends the turn to the chat history and, when the
// message qualifies, asks the responder for a reply.
type ChatHandler struct {
	groups      *repository.GroupRepository
	history     *repository.HistoryRepository
	responder   *service.Responder
	trigger     string
	maxAge      time.Duration
	replyPrompt string
}

// NewChatHandler creates a new ChatHandler. trigger is matched
// case-insensitively; messages older than maxAge are dropped.
func NewChatHandler(
	groups *repository.GroupRepository,
	history *repository.HistoryRepository,
	responder *service.Responder,
	trigger string,
	maxAge time.Duration,
	replyPrompt string,
) *ChatHandler {
	return &ChatHandler{
		groups:      groups,
		history:     history,
		responder:   responder,
		trigger:     strings.ToLower(trigger),
		maxAge:      maxAge,
		replyPrompt: replyPrompt,
	}
}

// HandleText handles every non-command text message.
func (h *ChatHandler) HandleText(c tele.Context) error {
	msg := c.Message()
	chat := c.Chat()
	sender := c.Sender()
	if msg == nil || chat == nil || sender == nil {
		return nil
	}

	h.recordGroup(chat, sender)

	entry := fmt.Sprintf("%s(%d): %s", displayName(sender), sender.ID, msg.Text)
	if msg.ReplyTo != nil {
		entry += fmt.Sprintf(" (reply_to:- %s)", msg.ReplyTo.Text)
	}
	h.history.Append(chat.ID, model.TextEntry(entry))

	if strings.HasPrefix(msg.Text, "/") {
		return nil
	}

	// Staleness filter: messages are dropped, not answered late.
	if age := time.Since(msg.Time()); age > h.maxAge {
		log.Debug().
			Int64("user_id", sender.ID).
			Dur("age", age).
			Msg("Skipping stale message")
		return nil
	}

	if !h.mustReply(c, msg) {
		log.Debug().
			Int64("user_id", sender.ID).
			Str("text", truncate(msg.Text, 60)).
			Msg("Ignoring message without trigger")
		return nil
	}

	reply := h.responder.Respond(context.Background(), chat.ID, msg.Text, h.replyPrompt)
	h.history.Append(chat.ID, model.AssistantEntry(reply))

	log.Info().
		Int64("user_id", sender.ID).
		Int64("chat_id", chat.ID).
		Str("query", truncate(msg.Text, 60)).
		Msg("Replied to message")

	return c.Reply(reply)
}

// recordGroup updates the group registry for the chat; private chats
// get a synthetic per-user title.
func (h *ChatHandler) recordGroup(chat *tele.Chat, sender *tele.User) {
	if chat.Type == tele.ChatGroup || chat.Type == tele.ChatSuperGroup {
		h.groups.Record(chat.ID, chat.Title)
		return
	}
	h.groups.Record(chat.ID, fmt.Sprintf("personal-%d", sender.ID))
}

// mustReply reports whether the message obliges a reply: either it
// replies to the bot's own message or it contains the trigger
// substring (case-insensitive).
func (h *ChatHandler) mustReply(c tele.Context, msg *tele.Message) bool {
	if msg.ReplyTo != nil && msg.ReplyTo.Sender != nil && msg.ReplyTo.Sender.ID == c.Bot().Me.ID {
		return true
	}
	return strings.Contains(strings.ToLower(msg.Text), h.trigger)
}

// truncate shortens log output to at most n runes without splitting a
// multibyte character.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
