// Package handler provides Telegram bot command handlers.
package handler

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"shin-chat-bot/internal/pkg/lock"
	"shin-chat-bot/internal/service"
)

// timeFormat renders expiry and next-claim timestamps in replies.
const timeFormat = "2006-01-02 15:04:05"

// AccountHandler handles account commands: /start, /claim, /balance.
type AccountHandler struct {
	reward   *service.RewardService
	userLock *lock.UserLock
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(reward *service.RewardService, userLock *lock.UserLock) *AccountHandler {
	return &AccountHandler{reward: reward, userLock: userLock}
}

// HandleStart handles the /start command with the inline keyboard.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("Add to a group", "add_group")),
		markup.Row(markup.Data("Chat personal", "chat_personal")),
	)
	return c.Reply("I am shin", markup)
}

// HandleStartCallback answers the /start keyboard buttons.
func (h *AccountHandler) HandleStartCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}
	defer func() { _ = c.Respond() }()

	switch strings.TrimPrefix(callback.Data, "\f") {
	case "add_group":
		return c.Edit("Invite bot to your group then use /start in group.")
	case "chat_personal":
		return c.Edit("Start a personal chat by sending a message to me.")
	}
	return nil
}

// HandleClaim handles the /claim command.
func (h *AccountHandler) HandleClaim(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	res, err := h.reward.Claim(sender.ID)
	if err != nil {
		next := time.Unix(res.NextAllowed, 0).Format(timeFormat)
		return c.Reply(fmt.Sprintf("tumne already claim kiya. Next: %s", next))
	}
	return c.Reply(fmt.Sprintf("Claim successful! tumhe %d coin mila. Total: %d", res.Amount, res.NewBalance))
}

// HandleBalance handles the /balance command. Replying to another
// user's message inspects that user's balance instead.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	msg := c.Message()
	if msg != nil && msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		target := msg.ReplyTo.Sender
		if target.IsBot {
			return c.Reply("bot ka kya balance dekh raha hai be 😂")
		}
		return c.Reply(fmt.Sprintf("%s ka balance: %d", displayName(target), h.reward.Balance(target.ID)))
	}

	sender := c.Sender()
	if sender == nil {
		return nil
	}
	return c.Reply(fmt.Sprintf("Tera balance: %d", h.reward.Balance(sender.ID)))
}

// displayName renders a user the way history entries and replies do.
func displayName(u *tele.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if name == "" {
		name = u.Username
	}
	return name
}
