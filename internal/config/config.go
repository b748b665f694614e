// Package config provides configuration loading, validation, and defaults
// for the relay bot. Values come from config.yaml, BOT_* environment
// variables, and built-in defaults, in ascending order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components of the
// relay bot: logging, gateway identity, AI integration, throttling,
// moderation policy, and scheduled tasks.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Bot       BotConfig       `mapstructure:"bot"`
	AI        AIConfig        `mapstructure:"ai"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// BotConfig holds gateway-facing settings and user-visible message strings.
type BotConfig struct {
	Name             string        `mapstructure:"name"               validate:"required"`
	DefaultChannelID string        `mapstructure:"default_channel_id"`
	HistoryCommand   string        `mapstructure:"history_command"    validate:"required"`
	ReplyWindow      time.Duration `mapstructure:"reply_window"       validate:"min=0"`
	StrikeInterval   int           `mapstructure:"strike_interval"    validate:"min=1"`
	Messages         Messages      `mapstructure:"messages"`
}

// AIConfig holds settings for the completion and moderation API client.
type AIConfig struct {
	Token              string        `mapstructure:"token"                validate:"required"`
	BaseURL            string        `mapstructure:"base_url"             validate:"omitempty,url"`
	Model              string        `mapstructure:"model"                validate:"required"`
	Temperature        float32       `mapstructure:"temperature"          validate:"min=0,max=2"`
	Timeout            time.Duration `mapstructure:"timeout"              validate:"min=1s,max=10m"`
	MaxRetries         int           `mapstructure:"max_retries"          validate:"min=0,max=10"`
	RetryDelay         time.Duration `mapstructure:"retry_delay"          validate:"min=0"`
	MinRequestInterval time.Duration `mapstructure:"min_request_interval" validate:"min=0"`
}

// Messages collects all user-visible bot texts so deployments can rebrand
// them without code changes.
type Messages struct {
	FetchingResponse  string `mapstructure:"fetching_response"`
	FetchingHistory   string `mapstructure:"fetching_history"`
	HistoryHeader     string `mapstructure:"history_header"`
	NoHistory         string `mapstructure:"no_history"`
	FetchFailed       string `mapstructure:"fetch_failed"`
	GeneralError      string `mapstructure:"general_error"`
	ModerationWarning string `mapstructure:"moderation_warning"`
	TimeoutReason     string `mapstructure:"timeout_reason"`
	MemberJoined      string `mapstructure:"member_joined"`
	MemberLeft        string `mapstructure:"member_left"`
}

// SchedulerConfig configures the background task scheduler.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig loads configuration from the given YAML file path (the file may
// be absent), applies BOT_* environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, the defaults plus env cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	// Keys without a meaningful default still need to be registered so
	// AutomaticEnv can bind them during Unmarshal.
	v.SetDefault("ai.token", "")
	v.SetDefault("bot.default_channel_id", "")

	v.SetDefault("bot.name", "chat relay bot")
	v.SetDefault("bot.history_command", "!showMyChatHistory")
	v.SetDefault("bot.reply_window", 3*time.Second)
	v.SetDefault("bot.strike_interval", 3)

	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.temperature", 1.0)
	v.SetDefault("ai.timeout", 2*time.Minute)
	v.SetDefault("ai.max_retries", 2)
	v.SetDefault("ai.retry_delay", 2*time.Second)
	v.SetDefault("ai.min_request_interval", 3*time.Second)

	v.SetDefault("bot.messages.fetching_response", "Fetching response, please wait....")
	v.SetDefault("bot.messages.fetching_history", "Fetching chat history from %s's account...")
	v.SetDefault("bot.messages.history_header", "Here is your chat history:")
	v.SetDefault("bot.messages.no_history", "There are no chats to view!")
	v.SetDefault("bot.messages.fetch_failed", "Failed to fetch your response!!!")
	v.SetDefault("bot.messages.general_error", "Sorry, something went wrong. Please try again later.")
	v.SetDefault("bot.messages.moderation_warning", "Your message has been flagged for: %s. Sending messages which violate the usage policy will result in a ban")
	v.SetDefault("bot.messages.timeout_reason", "Violating speech terms.")
	v.SetDefault("bot.messages.member_joined", "Welcome to the server, %s!")
	v.SetDefault("bot.messages.member_left", "%s has left the server")
}
