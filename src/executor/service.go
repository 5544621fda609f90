// Package executor runs one conversational turn: it rebuilds the history,
// drives the bounded model/tool loop and persists the exchange atomically.
package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/storage"
)

const (
	DefaultMaxToolRounds = 1
	DefaultModelTimeout  = 60 * time.Second
	DefaultHistoryLimit  = 50
)

// Store is the persistence the executor needs.
type Store interface {
	GetConversation(ctx context.Context, conversationID, userID string) (*storage.Conversation, error)
	LoadMessages(ctx context.Context, conversationID, userID string, maxCount int) ([]storage.Message, error)
	SaveTurn(ctx context.Context, turn *storage.Turn) error
}

// Toolbox executes tool calls on behalf of a user and describes the catalog
// offered to the model.
type Toolbox interface {
	ChatTools() []*aisdk.ChatTool
	ExecuteTool(ctx context.Context, userID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error)
}

// Service handles turn execution with all necessary dependencies
type Service struct {
	store              Store
	toolbox            Toolbox
	model              aisdk.ModelClient
	logger             *slog.Logger
	systemPrompt       string
	alwaysSystemPrompt bool
	maxToolRounds      int
	modelTimeout       time.Duration
	historyLimit       int
	titleLength        int
	temperature        *float64
	maxTokens          *int
}

// ServiceConfig holds configuration for creating a new Service
type ServiceConfig struct {
	Store   Store
	Toolbox Toolbox
	Model   aisdk.ModelClient
	Logger  *slog.Logger

	// SystemPrompt is prepended when the conversation has no prior messages,
	// or on every turn when AlwaysSystemPrompt is set. It is never persisted.
	SystemPrompt       string
	AlwaysSystemPrompt bool

	// MaxToolRounds bounds how many times tool results are fed back to the
	// model within one turn.
	MaxToolRounds int
	// ModelTimeout bounds each individual model call.
	ModelTimeout time.Duration
	// HistoryLimit is the number of stored messages replayed to the model.
	// Zero or less replays the whole conversation.
	HistoryLimit int
	TitleLength  int

	Temperature *float64
	MaxTokens   *int
}

// NewService creates a new turn executor
func NewService(config ServiceConfig) (*Service, error) {
	if config.Store == nil {
		return nil, ErrStoreRequired
	}
	if config.Toolbox == nil {
		return nil, ErrToolboxRequired
	}
	if config.Model == nil {
		return nil, ErrModelClientRequired
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxToolRounds <= 0 {
		config.MaxToolRounds = DefaultMaxToolRounds
	}
	if config.ModelTimeout <= 0 {
		config.ModelTimeout = DefaultModelTimeout
	}
	if config.TitleLength <= 0 {
		config.TitleLength = storage.DefaultTitleLength
	}

	return &Service{
		store:              config.Store,
		toolbox:            config.Toolbox,
		model:              config.Model,
		logger:             config.Logger,
		systemPrompt:       config.SystemPrompt,
		alwaysSystemPrompt: config.AlwaysSystemPrompt,
		maxToolRounds:      config.MaxToolRounds,
		modelTimeout:       config.ModelTimeout,
		historyLimit:       config.HistoryLimit,
		titleLength:        config.TitleLength,
		temperature:        config.Temperature,
		maxTokens:          config.MaxTokens,
	}, nil
}

// ModelName reports the model the service talks to.
func (s *Service) ModelName() string {
	return s.model.ModelName()
}
