package aisdk

import (
	"context"
)

// ModelClient is a client bound to a single model.
type ModelClient interface {
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)
	ModelName() string
}
