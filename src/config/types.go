// Package config holds the static configuration for the tutoring core:
// provider credentials, model selection, dispatch tuning and storage paths.
// The Config object is built once at process start and passed by reference;
// nothing mutates it at runtime.
package config

import "time"

// Config represents the complete configuration for the tutoring core.
type Config struct {
	// Version of the configuration format
	Version string `json:"version"`

	// Credentials holds the failover API key slots per role
	Credentials CredentialsConfig `json:"credentials"`

	// Models selects which upstream models serve each role
	Models ModelSelection `json:"models"`

	// Request contains the sampling parameters sent with every completion
	Request RequestConfig `json:"request"`

	// Dispatch contains failover timing and retry tuning
	Dispatch DispatchConfig `json:"dispatch"`

	// Site identification headers sent upstream
	Site SiteConfig `json:"site"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Data directory configuration
	Data DataConfig `json:"data"`
}

// CredentialsConfig carries the API keys for both roles. Each role has
// exactly three slots, 1:1 with provider IDs 1..3.
type CredentialsConfig struct {
	Chat   []string `json:"chat" validate:"len=3"`
	Vision []string `json:"vision" validate:"len=3"`
}

// ModelSelection picks the models used across a dispatch: the primary chat
// model on the first attempt, the backup on later attempts, and the single
// vision model for image analysis.
type ModelSelection struct {
	Primary string `json:"primary" validate:"required"`
	Backup  string `json:"backup" validate:"required"`
	Vision  string `json:"vision" validate:"required"`
}

// RequestConfig contains the sampling parameters for upstream requests.
type RequestConfig struct {
	MaxTokens        int     `json:"max_tokens" validate:"gt=0"`
	Temperature      float64 `json:"temperature" validate:"gte=0,lte=2"`
	TopP             float64 `json:"top_p" validate:"gte=0,lte=1"`
	FrequencyPenalty float64 `json:"frequency_penalty" validate:"gte=-2,lte=2"`
	PresencePenalty  float64 `json:"presence_penalty" validate:"gte=-2,lte=2"`
}

// DispatchConfig tunes the failover engine. Durations are stored in
// milliseconds so the JSON stays readable.
type DispatchConfig struct {
	ChatTimeoutMs   int `json:"chat_timeout_ms" validate:"gt=0"`
	VisionTimeoutMs int `json:"vision_timeout_ms" validate:"gt=0"`
	RetryDelayMs    int `json:"retry_delay_ms" validate:"gte=0"`
	MaxRetries      int `json:"max_retries" validate:"gt=0"`
}

// ChatTimeout returns the per-attempt deadline for chat dispatches.
func (d DispatchConfig) ChatTimeout() time.Duration {
	return time.Duration(d.ChatTimeoutMs) * time.Millisecond
}

// VisionTimeout returns the per-attempt deadline for vision dispatches.
func (d DispatchConfig) VisionTimeout() time.Duration {
	return time.Duration(d.VisionTimeoutMs) * time.Millisecond
}

// RetryDelay returns the fixed inter-attempt delay.
func (d DispatchConfig) RetryDelay() time.Duration {
	return time.Duration(d.RetryDelayMs) * time.Millisecond
}

// SiteConfig identifies the application to the gateway for ranking.
type SiteConfig struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// LoggingConfig defines logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level" validate:"log_level"`

	// Format is the output format (text, json)
	Format string `json:"format" validate:"log_format"`
}

// DataConfig defines data directory configuration.
type DataConfig struct {
	// Directory where application data (the session database) is stored
	Directory string `json:"directory,omitempty"`
}
