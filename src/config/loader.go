package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables recognized by the loader. Key slots are numbered to
// mirror the three failover providers.
const (
	envChatKeyPrefix   = "ATOM_CHAT_API_KEY_"
	envVisionKeyPrefix = "ATOM_VISION_API_KEY_"
	envLogLevel        = "ATOM_LOG_LEVEL"
	envDataDir         = "ATOM_DATA_DIR"
)

// Loader loads and merges configuration from defaults, an optional JSON file
// and environment overrides, then validates the result.
type Loader struct {
	validator *Validator
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{validator: NewValidator()}
}

// Load loads configuration, merging sources in increasing precedence:
// defaults, then the file at path (ignored when missing), then environment.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		fileCfg, err := l.loadFile(path)
		if err == nil {
			config = l.mergeConfigs(config, fileCfg)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	l.applyEnvironmentOverrides(config)

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFile loads a single configuration file
func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &config, nil
}

// SaveFile saves configuration to a file
func (l *Loader) SaveFile(config *Config, path string) error {
	if err := l.validator.Validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// mergeConfigs merges two configurations with the second taking precedence
func (l *Loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}
	if len(override.Credentials.Chat) > 0 {
		result.Credentials.Chat = override.Credentials.Chat
	}
	if len(override.Credentials.Vision) > 0 {
		result.Credentials.Vision = override.Credentials.Vision
	}
	if override.Models.Primary != "" {
		result.Models.Primary = override.Models.Primary
	}
	if override.Models.Backup != "" {
		result.Models.Backup = override.Models.Backup
	}
	if override.Models.Vision != "" {
		result.Models.Vision = override.Models.Vision
	}
	if override.Request.MaxTokens != 0 {
		result.Request.MaxTokens = override.Request.MaxTokens
	}
	if override.Request.Temperature != 0 {
		result.Request.Temperature = override.Request.Temperature
	}
	if override.Request.TopP != 0 {
		result.Request.TopP = override.Request.TopP
	}
	if override.Request.FrequencyPenalty != 0 {
		result.Request.FrequencyPenalty = override.Request.FrequencyPenalty
	}
	if override.Request.PresencePenalty != 0 {
		result.Request.PresencePenalty = override.Request.PresencePenalty
	}
	if override.Dispatch.ChatTimeoutMs != 0 {
		result.Dispatch.ChatTimeoutMs = override.Dispatch.ChatTimeoutMs
	}
	if override.Dispatch.VisionTimeoutMs != 0 {
		result.Dispatch.VisionTimeoutMs = override.Dispatch.VisionTimeoutMs
	}
	if override.Dispatch.RetryDelayMs != 0 {
		result.Dispatch.RetryDelayMs = override.Dispatch.RetryDelayMs
	}
	if override.Dispatch.MaxRetries != 0 {
		result.Dispatch.MaxRetries = override.Dispatch.MaxRetries
	}
	if override.Site.URL != "" {
		result.Site.URL = override.Site.URL
	}
	if override.Site.Name != "" {
		result.Site.Name = override.Site.Name
	}
	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}
	if override.Data.Directory != "" {
		result.Data.Directory = override.Data.Directory
	}

	return &result
}

// applyEnvironmentOverrides applies ATOM_* environment variables on top of
// the merged configuration.
func (l *Loader) applyEnvironmentOverrides(config *Config) {
	for i := 0; i < 3; i++ {
		slot := fmt.Sprintf("%d", i+1)
		if key := os.Getenv(envChatKeyPrefix + slot); key != "" && i < len(config.Credentials.Chat) {
			config.Credentials.Chat[i] = key
		}
		if key := os.Getenv(envVisionKeyPrefix + slot); key != "" && i < len(config.Credentials.Vision) {
			config.Credentials.Vision[i] = key
		}
	}

	if level := os.Getenv(envLogLevel); level != "" {
		config.Logging.Level = level
	}
	if dir := os.Getenv(envDataDir); dir != "" {
		config.Data.Directory = dir
	}
}
