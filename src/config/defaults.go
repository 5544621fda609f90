package config

import "time"

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"

	DefaultModel = "openai/gpt-4o-mini"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			Provider: ProviderOpenRouter,
			Timeout:  Duration(60 * time.Second),
			Retry: RetryConfig{
				MaxRetries: 3,
				Delay:      Duration(time.Second),
			},
			SiteName: "taskchat",
		},
		Agent: AgentConfig{
			Model:         DefaultModel,
			MaxToolRounds: 1,
			ModelTimeout:  Duration(60 * time.Second),
			ToolTimeout:   Duration(10 * time.Second),
			HistoryLimit:  50,
			TitleLength:   50,
		},
		Storage: StorageConfig{
			DatabasePath: DefaultDatabasePath(),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"*"},
			UserHeader:      "X-User-ID",
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
