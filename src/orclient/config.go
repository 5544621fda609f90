package orclient

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds configuration for the OpenRouter client
type Config struct {
	APIKey     string        // OpenRouter API key
	BaseURL    string        // Base URL of any OpenAI-compatible API
	Logger     *slog.Logger  // Logger for debugging
	Timeout    time.Duration // HTTP timeout per attempt
	RetryCount int           // Number of attempts for failed requests
	RetryDelay time.Duration // Base delay between attempts
	SiteURL    string        // Site URL for ranking
	SiteName   string        // Site name for ranking
	HTTPClient *http.Client  // Optional transport override
}
