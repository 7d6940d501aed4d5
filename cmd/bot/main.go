// Package main is the entry point for the shin chat bot.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"shin-chat-bot/internal/bot"
	"shin-chat-bot/internal/config"
	"shin-chat-bot/internal/llm"
	"shin-chat-bot/internal/pkg/lock"
	"shin-chat-bot/internal/repository"
	"shin-chat-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// A .env file is optional; env vars override config.yaml via viper.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	// Initialize flat-file repositories
	userRepo := repository.NewUserRepository(cfg.Storage.UsersFile())
	historyRepo := repository.NewHistoryRepository(
		cfg.Storage.ChatsFile(),
		cfg.Chat.Persona,
		cfg.Chat.HistoryLimit,
	)
	groupRepo := repository.NewGroupRepository(cfg.Storage.GroupsFile())

	// Initialize the LLM client; without a key the responder falls
	// back to canned replies.
	var llmClient llm.Client
	if cfg.LLM.APIKey != "" {
		llmClient = llm.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model)
		log.Info().Str("model", cfg.LLM.Model).Msg("LLM client configured")
	} else {
		log.Info().Msg("LLM not configured, using canned replies")
	}

	// Initialize services
	rewardService := service.NewRewardService(userRepo, cfg.Steal.ExemptIDs)
	responder := service.NewResponder(historyRepo, llmClient)

	userLock := lock.NewUserLock()

	telegramBot, err := bot.New(&bot.Dependencies{
		Config:    cfg,
		Reward:    rewardService,
		Responder: responder,
		Groups:    groupRepo,
		History:   historyRepo,
		UserLock:  userLock,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}
