// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default persona seeded at the head of every chat history.
const defaultPersona = "you are very lazy and funny. make fun of all. your name is shin. " +
	"write in less words. write in hindi (english letters) or english if asked. " +
	"do NOT write name(id): message format; write only message."

// Default system prompt supplied when answering free text.
const defaultReplyPrompt = "You are a troll named shin. make fun of user, short replies, " +
	"write in hinglish or english. Never output formats like name(id): message; just message text."

// Config holds all application configuration.
type Config struct {
	Bot     BotConfig     `mapstructure:"bot"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Storage StorageConfig `mapstructure:"storage"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Steal   StealConfig   `mapstructure:"steal"`
	Chat    ChatConfig    `mapstructure:"chat"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// LLMConfig holds language-model client configuration. An empty APIKey
// disables the LLM and the responder falls back to canned replies.
type LLMConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// StorageConfig holds the flat-file document locations.
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// AdminConfig lists users allowed to run privileged balance commands.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// StealConfig lists users that can never be stolen from.
type StealConfig struct {
	ExemptIDs []int64 `mapstructure:"exempt_ids"`
}

// ChatConfig holds conversation behavior configuration.
type ChatConfig struct {
	Trigger       string `mapstructure:"trigger"`
	MaxAgeSeconds int    `mapstructure:"max_age_seconds"`
	HistoryLimit  int    `mapstructure:"history_limit"`
	Persona       string `mapstructure:"persona"`
	ReplyPrompt   string `mapstructure:"reply_prompt"`
}

// UsersFile returns the user ledger document path.
func (s *StorageConfig) UsersFile() string {
	return filepath.Join(s.Dir, "users_data.json")
}

// ChatsFile returns the chat history document path.
func (s *StorageConfig) ChatsFile() string {
	return filepath.Join(s.Dir, "chats_data.json")
}

// GroupsFile returns the group registry document path.
func (s *StorageConfig) GroupsFile() string {
	return filepath.Join(s.Dir, "groups_list.json")
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, LLM_API_KEY, CHAT_TRIGGER.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is OK, env vars can provide all config.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.model", "google/gemini-2.5-flash-lite")

	v.SetDefault("storage.dir", "data")

	v.SetDefault("chat.trigger", "shin")
	v.SetDefault("chat.max_age_seconds", 6)
	v.SetDefault("chat.history_limit", 30)
	v.SetDefault("chat.persona", defaultPersona)
	v.SetDefault("chat.reply_prompt", defaultReplyPrompt)
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}
