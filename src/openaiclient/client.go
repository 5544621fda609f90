// Package openaiclient adapts github.com/sashabaranov/go-openai to the
// aisdk.ModelClient contract.
package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/elee1766/taskchat/src/aisdk"
)

// ErrNoAPIKey indicates the API key is missing
var ErrNoAPIKey = errors.New("API key is required")

// Config configures the adapter.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *slog.Logger
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client is a model client backed by go-openai.
type Client struct {
	api    *openai.Client
	model  string
	logger *slog.Logger
}

var _ aisdk.ModelClient = (*Client)(nil)

// New creates a client bound to cfg.Model.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		return nil, errors.New("model is required")
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.HTTPClient != nil {
		oc.HTTPClient = cfg.HTTPClient
	} else if cfg.Timeout > 0 {
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		api:    openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		logger: logger.With("component", "openai_client"),
	}, nil
}

// ModelName returns the bound model id
func (c *Client) ModelName() string {
	return c.model
}

// CreateChatCompletion sends req through go-openai.
func (c *Client) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	oreq := toOpenAIRequest(req)
	oreq.Model = c.model

	c.logger.Debug("sending chat completion request", "model", c.model, "messages", len(oreq.Messages), "tools", len(oreq.Tools))
	resp, err := c.api.CreateChatCompletion(ctx, oreq)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("openai API error %d: %w", apiErr.HTTPStatusCode, err)
		}
		return nil, fmt.Errorf("creating chat completion: %w", err)
	}
	return fromOpenAIResponse(&resp), nil
}

func toOpenAIRequest(req *aisdk.ChatCompletionRequest) openai.ChatCompletionRequest {
	out := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(req.Messages)),
		Stop:     req.Stop,
		User:     req.User,
	}
	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		out.TopP = float32(*req.TopP)
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}
	for _, m := range req.Messages {
		if m == nil {
			continue
		}
		out.Messages = append(out.Messages, toOpenAIMessage(m))
	}
	for _, t := range req.Tools {
		if t == nil {
			continue
		}
		def := &openai.FunctionDefinition{
			Name:        t.Function.Name,
			Description: t.Function.Description,
		}
		if t.Function.Parameters != nil {
			def.Parameters = t.Function.Parameters
		}
		out.Tools = append(out.Tools, openai.Tool{Type: openai.ToolTypeFunction, Function: def})
	}
	if req.ToolChoice != "" && len(out.Tools) > 0 {
		out.ToolChoice = req.ToolChoice
	}
	return out
}

func toOpenAIMessage(m *aisdk.Message) openai.ChatCompletionMessage {
	msg := openai.ChatCompletionMessage{
		Role:       m.Role,
		Content:    m.Content,
		Name:       m.Name,
		ToolCallID: m.ToolCallID,
	}
	for _, tc := range m.ToolCalls {
		msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
			ID:   tc.ID,
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return msg
}

func fromOpenAIResponse(resp *openai.ChatCompletionResponse) *aisdk.ChatCompletionResponse {
	out := &aisdk.ChatCompletionResponse{
		ID:      resp.ID,
		Object:  resp.Object,
		Created: resp.Created,
		Model:   resp.Model,
		Usage: aisdk.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, ch := range resp.Choices {
		msg := aisdk.Message{
			Role:    ch.Message.Role,
			Content: ch.Message.Content,
		}
		for _, tc := range ch.Message.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, aisdk.ToolCall{
				ID:   tc.ID,
				Type: string(tc.Type),
				Function: aisdk.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		out.Choices = append(out.Choices, aisdk.Choice{
			Index:        ch.Index,
			Message:      msg,
			FinishReason: string(ch.FinishReason),
		})
	}
	return out
}
