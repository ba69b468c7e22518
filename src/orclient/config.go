package orclient

import (
	"log/slog"
	"net/http"
)

// Config holds configuration for the OpenRouter client
type Config struct {
	APIKey     string       // OpenRouter API key
	BaseURL    string       // Base URL for OpenRouter API
	Logger     *slog.Logger // Logger for debugging
	HTTPClient *http.Client // Optional custom HTTP client
	SiteURL    string       // Site URL for ranking
	SiteName   string       // Site name for ranking
}
