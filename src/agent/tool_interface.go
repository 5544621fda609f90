package agent

import (
	"context"

	"github.com/elee1766/taskchat/src/aisdk"
	jsonschema "github.com/swaggest/jsonschema-go"
)

// Tool is the interface that all tools must implement
type Tool interface {
	// GetType returns the tool type (always "function" for now)
	GetType() string

	// GetName returns the tool's name
	GetName() string

	// GetDescription returns the tool's description
	GetDescription() string

	// GetParameters returns the JSON schema for the tool's parameters
	GetParameters() *jsonschema.Schema

	// Execute runs the tool on behalf of userID. The user id comes from the
	// caller, never from the model supplied arguments.
	Execute(ctx context.Context, userID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error)
}
