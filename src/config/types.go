// Package config loads taskchat settings from JSON files, .env files and the
// environment.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete taskchat configuration
type Config struct {
	Version string        `json:"version,omitempty"`
	API     APIConfig     `json:"api" envPrefix:"API_"`
	Agent   AgentConfig   `json:"agent" envPrefix:"AGENT_"`
	Storage StorageConfig `json:"storage" envPrefix:"STORAGE_"`
	Server  ServerConfig  `json:"server" envPrefix:"SERVER_"`
	Logging LoggingConfig `json:"logging" envPrefix:"LOG_"`
}

// APIConfig contains language model API settings
type APIConfig struct {
	Provider string      `json:"provider" env:"PROVIDER" validate:"required,provider"`
	BaseURL  string      `json:"base_url,omitempty" env:"BASE_URL" validate:"omitempty,url"`
	APIKey   string      `json:"api_key,omitempty" env:"KEY"`
	Timeout  Duration    `json:"timeout" env:"TIMEOUT" validate:"gte=0"`
	Retry    RetryConfig `json:"retry" envPrefix:"RETRY_"`
	SiteURL  string      `json:"site_url,omitempty" env:"SITE_URL"`
	SiteName string      `json:"site_name,omitempty" env:"SITE_NAME"`
}

// RetryConfig controls model request retries
type RetryConfig struct {
	MaxRetries int      `json:"max_retries" env:"MAX_RETRIES" validate:"gte=0,lte=10"`
	Delay      Duration `json:"delay" env:"DELAY" validate:"gte=0"`
}

// AgentConfig contains assistant behavior settings
type AgentConfig struct {
	Model              string   `json:"model" env:"MODEL" validate:"required"`
	Temperature        *float64 `json:"temperature,omitempty" env:"TEMPERATURE" validate:"omitempty,gte=0,lte=2"`
	MaxTokens          int      `json:"max_tokens,omitempty" env:"MAX_TOKENS" validate:"gte=0"`
	MaxToolRounds      int      `json:"max_tool_rounds" env:"MAX_TOOL_ROUNDS" validate:"gte=1,lte=10"`
	ModelTimeout       Duration `json:"model_timeout" env:"MODEL_TIMEOUT" validate:"gt=0"`
	ToolTimeout        Duration `json:"tool_timeout" env:"TOOL_TIMEOUT" validate:"gte=0"`
	HistoryLimit       int      `json:"history_limit" env:"HISTORY_LIMIT" validate:"gte=0"`
	TitleLength        int      `json:"title_length" env:"TITLE_LENGTH" validate:"gte=10,lte=200"`
	SystemPrompt       string   `json:"system_prompt,omitempty" env:"SYSTEM_PROMPT"`
	AlwaysSystemPrompt bool     `json:"always_system_prompt,omitempty" env:"ALWAYS_SYSTEM_PROMPT"`
}

// StorageConfig contains database settings
type StorageConfig struct {
	DatabasePath string `json:"database_path" env:"DATABASE_PATH" validate:"required"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr            string   `json:"addr" env:"ADDR" validate:"required"`
	AllowedOrigins  []string `json:"allowed_origins,omitempty" env:"ALLOWED_ORIGINS" envSeparator:","`
	UserHeader      string   `json:"user_header" env:"USER_HEADER" validate:"required"`
	ShutdownTimeout Duration `json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" validate:"gte=0"`
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Level  string `json:"level" env:"LEVEL" validate:"log_level"`
	Format string `json:"format" env:"FORMAT" validate:"log_format"`
}

// Duration is a time.Duration written as "30s" in files and the environment.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(v)
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.API.APIKey != "" {
		out.API.APIKey = "********"
	}
	out.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	return &out
}
