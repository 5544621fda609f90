package orclient

import (
	"context"

	"github.com/elee1766/taskchat/src/aisdk"
)

var _ aisdk.ModelClient = (*ModelClient)(nil)

// ModelClient represents a client bound to a specific model
type ModelClient struct {
	client *Client
	model  string
}

// Model creates a ModelClient bound to the specified model
func (c *Client) Model(modelName string) *ModelClient {
	return &ModelClient{client: c, model: modelName}
}

// CreateChatCompletion creates a chat completion with the bound model
func (mc *ModelClient) CreateChatCompletion(ctx context.Context, req *aisdk.ChatCompletionRequest) (*aisdk.ChatCompletionResponse, error) {
	bound := *req
	bound.Model = mc.model
	return mc.client.createChatCompletion(ctx, &bound)
}

// ModelName returns the bound model id
func (mc *ModelClient) ModelName() string {
	return mc.model
}
