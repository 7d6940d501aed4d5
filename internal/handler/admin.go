package handler

import (
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"shin-chat-bot/internal/pkg/lock"
	"shin-chat-bot/internal/service"
)

// AdminHandler handles the privileged balance commands. Access is gated
// by the admin middleware; these bypass every economy rule except the
// zero floor.
type AdminHandler struct {
	reward   *service.RewardService
	userLock *lock.UserLock
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reward *service.RewardService, userLock *lock.UserLock) *AdminHandler {
	return &AdminHandler{reward: reward, userLock: userLock}
}

// HandleAdminAdd handles the /admin_add command.
// Format: reply to the target with /admin_add <amount>
func (h *AdminHandler) HandleAdminAdd(c tele.Context) error {
	return h.adjust(c, 1, "admin_add")
}

// HandleAdminSub handles the /admin_sub command.
// Format: reply to the target with /admin_sub <amount>
func (h *AdminHandler) HandleAdminSub(c tele.Context) error {
	return h.adjust(c, -1, "admin_sub")
}

func (h *AdminHandler) adjust(c tele.Context, sign int64, op string) error {
	sender := c.Sender()
	msg := c.Message()
	if sender == nil || msg == nil {
		return nil
	}
	// Misuse is ignored without a reply; only admins see these anyway.
	if msg.ReplyTo == nil || msg.ReplyTo.Sender == nil {
		return nil
	}
	amount, err := parseAmount(c.Args())
	if err != nil || amount <= 0 {
		return nil
	}
	target := msg.ReplyTo.Sender
	if target.IsBot {
		return nil
	}

	h.userLock.Lock(target.ID)
	defer h.userLock.Unlock(target.ID)

	balance := h.reward.AdminAdjust(target.ID, sign*amount)

	log.Info().
		Int64("admin_id", sender.ID).
		Int64("target_id", target.ID).
		Int64("amount", sign*amount).
		Str("operation", op).
		Msg("Admin operation executed")

	return c.Reply(fmt.Sprintf("%s ka balance ab: %d", displayName(target), balance))
}
