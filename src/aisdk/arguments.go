package aisdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseArguments decodes the serialized argument document into a generic
// object. An empty document decodes to an empty object; anything other than
// a JSON object is an error.
func (f FunctionCall) ParseArguments() (map[string]any, error) {
	raw := strings.TrimSpace(f.Arguments)
	if raw == "" {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("arguments contain trailing data")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("arguments must be a JSON object, got %s", jsonKind(v))
	}
	return obj, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// NewJSONToolResponse marshals data as a successful tool response.
func NewJSONToolResponse(data any) (*ToolResponse, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool output: %w", err)
	}
	return &ToolResponse{Type: "success", Content: b}, nil
}

// ToolError is the structured payload of a failed tool call.
type ToolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// NewErrorToolResponse builds an error response the model can read.
func NewErrorToolResponse(kind, message string) *ToolResponse {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(map[string]ToolError{"error": {Kind: kind, Message: message}})
	return &ToolResponse{
		Type:    "error",
		Content: bytes.TrimRight(buf.Bytes(), "\n"),
		IsError: true,
	}
}
