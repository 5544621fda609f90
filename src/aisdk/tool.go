package aisdk

import (
	jsonschema "github.com/swaggest/jsonschema-go"
)

// ToolTypeFunction is the only tool type the chat completion APIs accept.
const ToolTypeFunction = "function"

// Tool choice values sent with a request that offers tools.
const (
	ToolChoiceAuto = "auto"
	ToolChoiceNone = "none"
)

// ChatTool is a tool definition as sent on a completion request.
type ChatTool struct {
	Type     string           `json:"type"`
	Function ChatToolFunction `json:"function"`
}

// ChatToolFunction names a callable function and the JSON Schema of its arguments.
type ChatToolFunction struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
}

// NewFunctionTool builds a function tool definition.
func NewFunctionTool(name, description string, params *jsonschema.Schema) *ChatTool {
	return &ChatTool{
		Type: ToolTypeFunction,
		Function: ChatToolFunction{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
	}
}
