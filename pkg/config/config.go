// Package config loads process configuration from the environment.
package config

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	// TelegramToken authenticates the bot with the Telegram Bot API.
	TelegramToken string
	// APIAddress is the base URL of the answer-generation backend.
	APIAddress string
	// APITimeout bounds every backend call.
	APITimeout time.Duration
	// LogLevel is a zerolog level name.
	LogLevel string
	// SendRate caps outbound Telegram sends per second.
	SendRate float64
}

// Load reads configuration from environment variables. TG_BOT_TOKEN and
// CHAT_API_ADDRESS are required; a missing value is a fatal startup
// error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("chat_api_timeout", 3*time.Minute)
	v.SetDefault("log_level", "info")
	v.SetDefault("send_rate", 25.0)

	_ = v.BindEnv("tg_bot_token", "TG_BOT_TOKEN")
	_ = v.BindEnv("chat_api_address", "CHAT_API_ADDRESS")
	_ = v.BindEnv("chat_api_timeout", "CHAT_API_TIMEOUT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("send_rate", "SEND_RATE")

	cfg := &Config{
		TelegramToken: v.GetString("tg_bot_token"),
		APIAddress:    v.GetString("chat_api_address"),
		APITimeout:    v.GetDuration("chat_api_timeout"),
		LogLevel:      v.GetString("log_level"),
		SendRate:      v.GetFloat64("send_rate"),
	}
	if cfg.TelegramToken == "" {
		return nil, errors.New("TG_BOT_TOKEN is required")
	}
	if cfg.APIAddress == "" {
		return nil, errors.New("CHAT_API_ADDRESS is required")
	}
	if cfg.APITimeout <= 0 {
		return nil, errors.New("CHAT_API_TIMEOUT must be positive")
	}
	if cfg.SendRate <= 0 {
		return nil, errors.New("SEND_RATE must be positive")
	}
	return cfg, nil
}
