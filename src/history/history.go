// Package history converts between persisted messages and the messages sent
// to the language model.
package history

import (
	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/storage"
)

// Reconstruct maps stored messages to model messages in the same order.
// Tool calls, their ids and argument strings are carried over unchanged.
// Tool messages at the start of a truncated window have lost their
// requesting assistant message and are dropped.
func Reconstruct(msgs []storage.Message) []*aisdk.Message {
	out := make([]*aisdk.Message, 0, len(msgs))
	leading := true
	for i := range msgs {
		m := &msgs[i]
		if leading && m.Role == storage.RoleTool {
			continue
		}
		leading = false
		out = append(out, ToModel(m))
	}
	return out
}

// ToModel converts one stored message.
func ToModel(m *storage.Message) *aisdk.Message {
	msg := &aisdk.Message{
		Role:    string(m.Role),
		Content: m.Content,
	}
	if m.Role == storage.RoleTool {
		msg.ToolCallID = m.ToolCallID
		msg.Name = m.Name
	}
	if len(m.ToolCalls) > 0 {
		msg.ToolCalls = make([]aisdk.ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			msg.ToolCalls[i] = aisdk.ToolCall{
				ID:   tc.ID,
				Type: toolType(tc.Type),
				Function: aisdk.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}
	return msg
}

// Record converts a model message into the form persisted by the store.
func Record(m *aisdk.Message) *storage.Message {
	msg := &storage.Message{
		Role:    storage.Role(m.Role),
		Content: m.Content,
	}
	if m.Role == aisdk.RoleTool {
		msg.ToolCallID = m.ToolCallID
		msg.Name = m.Name
	}
	if len(m.ToolCalls) > 0 {
		msg.ToolCalls = make(storage.ToolCallList, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			msg.ToolCalls[i] = storage.ToolCall{
				ID:   tc.ID,
				Type: toolType(tc.Type),
				Function: storage.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}
	return msg
}

// RecordAll converts a sequence of model messages.
func RecordAll(msgs []*aisdk.Message) []*storage.Message {
	out := make([]*storage.Message, len(msgs))
	for i, m := range msgs {
		out[i] = Record(m)
	}
	return out
}

func toolType(t string) string {
	if t == "" {
		return "function"
	}
	return t
}
