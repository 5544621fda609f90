// Package app wires configuration into a running chat service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/elee1766/taskchat/src/agent"
	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/chat"
	"github.com/elee1766/taskchat/src/config"
	"github.com/elee1766/taskchat/src/executor"
	"github.com/elee1766/taskchat/src/openaiclient"
	"github.com/elee1766/taskchat/src/orclient"
	"github.com/elee1766/taskchat/src/storage"
	"github.com/elee1766/taskchat/src/taskagent"
	"github.com/elee1766/taskchat/src/taskagent/tools"
)

// App represents the main application with all services
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    *storage.DB
	Model    aisdk.ModelClient
	Toolbox  *agent.DefaultToolbox
	Executor *executor.Service
	Chat     *chat.Service
}

// Options adjusts how New assembles the app.
type Options struct {
	Logger *slog.Logger
	// Model replaces the configured provider client.
	Model aisdk.ModelClient
}

// New opens storage, builds the model client and toolbox, and assembles the
// executor and chat service. The caller must Close the app.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := OpenStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, err
	}

	model := opts.Model
	if model == nil {
		model, err = NewModelClient(cfg, logger)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	toolbox := agent.NewToolbox[agent.Tool]()
	if err := tools.Register(toolbox, store); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	toolbox.RegisterMiddleware(agent.LoggingMiddleware(logger.With("component", "tools")))
	toolbox.RegisterMiddleware(agent.TimeoutMiddleware(cfg.Agent.ToolTimeout.Std()))

	systemPrompt := cfg.Agent.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = taskagent.GenerateSystemPrompt(toolbox, time.Now())
	}

	var maxTokens *int
	if cfg.Agent.MaxTokens > 0 {
		maxTokens = &cfg.Agent.MaxTokens
	}

	exec, err := executor.NewService(executor.ServiceConfig{
		Store:              store,
		Toolbox:            toolbox,
		Model:              model,
		Logger:             logger.With("component", "executor"),
		SystemPrompt:       systemPrompt,
		AlwaysSystemPrompt: cfg.Agent.AlwaysSystemPrompt,
		MaxToolRounds:      cfg.Agent.MaxToolRounds,
		ModelTimeout:       cfg.Agent.ModelTimeout.Std(),
		HistoryLimit:       cfg.Agent.HistoryLimit,
		TitleLength:        cfg.Agent.TitleLength,
		Temperature:        cfg.Agent.Temperature,
		MaxTokens:          maxTokens,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	svc := chat.NewService(chat.Config{
		Sender: exec,
		Store:  store,
		Logger: logger,
	})

	logger.Debug("app initialized",
		"provider", cfg.API.Provider,
		"model", model.ModelName(),
		"database", store.Path(),
		"tools", toolbox.Names())

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Model:    model,
		Toolbox:  toolbox,
		Executor: exec,
		Chat:     svc,
	}, nil
}

// OpenStore opens the database at path, creating its directory first.
func OpenStore(path string) (*storage.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	store, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, nil
}

// NewModelClient builds the client for the configured provider.
func NewModelClient(cfg *config.Config, logger *slog.Logger) (aisdk.ModelClient, error) {
	switch cfg.API.Provider {
	case config.ProviderOpenAI:
		client, err := openaiclient.New(openaiclient.Config{
			APIKey:  cfg.API.APIKey,
			BaseURL: cfg.API.BaseURL,
			Model:   cfg.Agent.Model,
			Timeout: cfg.API.Timeout.Std(),
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenRouter, "":
		client, err := orclient.NewClient(orclient.Config{
			APIKey:     cfg.API.APIKey,
			BaseURL:    cfg.API.BaseURL,
			Logger:     logger,
			Timeout:    cfg.API.Timeout.Std(),
			RetryCount: cfg.API.Retry.MaxRetries,
			RetryDelay: cfg.API.Retry.Delay.Std(),
			SiteURL:    cfg.API.SiteURL,
			SiteName:   cfg.API.SiteName,
		})
		if err != nil {
			return nil, err
		}
		return client.Model(cfg.Agent.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.API.Provider)
	}
}

// Close closes all resources held by the app
func (a *App) Close() error {
	var result *multierror.Error
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close storage: %w", err))
		}
	}
	return result.ErrorOrNil()
}
