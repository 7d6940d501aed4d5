// Package bot provides the Telegram bot initialization and handler
// registration.
package bot

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"shin-chat-bot/internal/config"
	"shin-chat-bot/internal/handler"
	"shin-chat-bot/internal/pkg/lock"
	"shin-chat-bot/internal/repository"
	"shin-chat-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	accountHandler *handler.AccountHandler
	economyHandler *handler.EconomyHandler
	adminHandler   *handler.AdminHandler
	chatHandler    *handler.ChatHandler
}

// Dependencies holds everything the bot handlers need.
type Dependencies struct {
	Config    *config.Config
	Reward    *service.RewardService
	Responder *service.Responder
	Groups    *repository.GroupRepository
	History   *repository.HistoryRepository
	UserLock  *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot: teleBot,
		cfg: deps.Config,
	}

	b.accountHandler = handler.NewAccountHandler(deps.Reward, deps.UserLock)
	b.economyHandler = handler.NewEconomyHandler(deps.Reward, deps.UserLock)
	b.adminHandler = handler.NewAdminHandler(deps.Reward, deps.UserLock)
	b.chatHandler = handler.NewChatHandler(
		deps.Groups,
		deps.History,
		deps.Responder,
		deps.Config.Chat.Trigger,
		time.Duration(deps.Config.Chat.MaxAgeSeconds)*time.Second,
		deps.Config.Chat.ReplyPrompt,
	)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(RecoveryMiddleware())
}

// registerHandlers registers all command, callback and text handlers.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/claim", b.accountHandler.HandleClaim)
	b.bot.Handle("/balance", b.accountHandler.HandleBalance)

	b.bot.Handle("/protect", b.economyHandler.HandleProtect)
	b.bot.Handle("/give_coin", b.economyHandler.HandleGive)
	b.bot.Handle("/steal", b.economyHandler.HandleSteal)

	// Privileged balance commands, gated by the admin middleware.
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/admin_add", b.adminHandler.HandleAdminAdd)
	adminGroup.Handle("/admin_sub", b.adminHandler.HandleAdminSub)

	b.bot.Handle(tele.OnCallback, b.accountHandler.HandleStartCallback)

	// Media and stickers go through the same path as text so the
	// group registry and history see every message.
	b.bot.Handle(tele.OnText, b.chatHandler.HandleText)
	b.bot.Handle(tele.OnMedia, b.chatHandler.HandleText)
	b.bot.Handle(tele.OnSticker, b.chatHandler.HandleText)
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
