package handler

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"shin-chat-bot/internal/pkg/lock"
	"shin-chat-bot/internal/service"
)

// EconomyHandler handles /protect, /give_coin and /steal.
type EconomyHandler struct {
	reward   *service.RewardService
	userLock *lock.UserLock
}

// NewEconomyHandler creates a new EconomyHandler.
func NewEconomyHandler(reward *service.RewardService, userLock *lock.UserLock) *EconomyHandler {
	return &EconomyHandler{reward: reward, userLock: userLock}
}

// HandleProtect handles the /protect command.
// Format: /protect <1d|2d|3d>
func (h *EconomyHandler) HandleProtect(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) == 0 {
		return c.Reply("Usage: /protect 1d | 2d | 3d")
	}

	h.userLock.Lock(sender.ID)
	defer h.userLock.Unlock(sender.ID)

	until, balance, err := h.reward.Protect(sender.ID, args[0])
	switch {
	case errors.Is(err, service.ErrUnknownTier):
		return c.Reply("Options: 1d (200), 2d (700), 3d (2000)")
	case errors.Is(err, service.ErrInsufficientBalance):
		_, cost, _ := service.ProtectTier(args[0])
		return c.Reply(fmt.Sprintf("Not enough coins. Required: %d, you have: %d", cost, balance))
	}

	dt := time.Unix(until, 0).Format(timeFormat)
	return c.Reply(fmt.Sprintf("Protection active until %s. coins left: %d", dt, balance))
}

// HandleGive handles the /give_coin command.
// Format: reply to the recipient with /give_coin <amount>
func (h *EconomyHandler) HandleGive(c tele.Context) error {
	sender := c.Sender()
	msg := c.Message()
	if sender == nil || msg == nil {
		return nil
	}
	if msg.ReplyTo == nil || msg.ReplyTo.Sender == nil {
		return c.Reply("Reply to a user with /give_coin <amount>")
	}

	amount, err := parseAmount(c.Args())
	if err != nil {
		return c.Reply("Invalid amount.")
	}
	target := msg.ReplyTo.Sender

	h.userLock.LockPair(sender.ID, target.ID)
	defer h.userLock.UnlockPair(sender.ID, target.ID)

	credited, balance, err := h.reward.Transfer(sender.ID, target.ID, amount, target.IsBot)
	switch {
	case errors.Is(err, service.ErrBotTarget):
		return c.Reply("Cannot gift to bots.")
	case errors.Is(err, service.ErrInvalidAmount):
		return c.Reply("Invalid amount.")
	case errors.Is(err, service.ErrInsufficientBalance):
		return c.Reply("Not enough coins.")
	}

	return c.Reply(fmt.Sprintf("Given %d to %s. Your coins: %d", credited, displayName(target), balance))
}

// HandleSteal handles the /steal command.
// Format: reply to the victim's message with /steal <amount>
func (h *EconomyHandler) HandleSteal(c tele.Context) error {
	sender := c.Sender()
	msg := c.Message()
	if sender == nil || msg == nil {
		return nil
	}
	if msg.ReplyTo == nil || msg.ReplyTo.Sender == nil {
		return c.Reply("Reply to a user's message with /steal <amount>")
	}

	amount, err := parseAmount(c.Args())
	if err != nil {
		return c.Reply("Invalid amount.")
	}
	target := msg.ReplyTo.Sender

	h.userLock.LockPair(sender.ID, target.ID)
	defer h.userLock.UnlockPair(sender.ID, target.ID)

	res, err := h.reward.Steal(sender.ID, target.ID, amount)
	switch {
	case errors.Is(err, service.ErrTargetExempt):
		// Exempt targets are ignored without a reply.
		return nil
	case errors.Is(err, service.ErrSelfSteal):
		return c.Reply("tu apne ghar se chori karega .gali du")
	case errors.Is(err, service.ErrTargetProtected):
		return c.Reply("Target is protected.")
	case errors.Is(err, service.ErrTargetBroke):
		return c.Reply("Target has no coin.")
	case errors.Is(err, service.ErrInvalidAmount):
		return c.Reply("Invalid amount.")
	}

	return c.Reply(fmt.Sprintf("Steal success! got %d from %s", res.Taken, displayName(target)))
}

// parseAmount parses the single integer argument of an economy command.
func parseAmount(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing amount")
	}
	return strconv.ParseInt(args[0], 10, 64)
}
