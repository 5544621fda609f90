package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/storage"
)

func sampleTurn() []*aisdk.Message {
	return []*aisdk.Message{
		{Role: aisdk.RoleUser, Content: "Add milk and eggs"},
		{Role: aisdk.RoleAssistant, ToolCalls: []aisdk.ToolCall{
			{ID: "call_a", Type: "function", Function: aisdk.FunctionCall{Name: "add_task", Arguments: `{"title":"milk"}`}},
			{ID: "call_b", Type: "function", Function: aisdk.FunctionCall{Name: "add_task", Arguments: `{ "title" : "eggs" }`}},
		}},
		{Role: aisdk.RoleTool, ToolCallID: "call_a", Name: "add_task", Content: `{"task":{"id":1}}`},
		{Role: aisdk.RoleTool, ToolCallID: "call_b", Name: "add_task", Content: `{"task":{"id":2}}`},
		{Role: aisdk.RoleAssistant, Content: "Added both."},
	}
}

func TestRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	conv, err := storage.NewConversation("alice")
	require.NoError(t, err)

	original := sampleTurn()
	require.NoError(t, db.SaveTurn(ctx, &storage.Turn{
		Conversation:    conv,
		UserID:          "alice",
		NewConversation: true,
		Messages:        RecordAll(original),
	}))

	stored, err := storage.LoadMessages(ctx, db.DB(), conv.ID, "alice", 0)
	require.NoError(t, err)

	rebuilt := Reconstruct(stored)
	assert.Equal(t, original, rebuilt)
}

func TestReconstructDropsLeadingOrphanedToolMessages(t *testing.T) {
	stored := []storage.Message{
		{Role: storage.RoleTool, ToolCallID: "call_a", Name: "add_task", Content: "{}"},
		{Role: storage.RoleAssistant, Content: "done"},
		{Role: storage.RoleUser, Content: "thanks"},
	}
	rebuilt := Reconstruct(stored)
	require.Len(t, rebuilt, 2)
	assert.Equal(t, aisdk.RoleAssistant, rebuilt[0].Role)
	assert.Equal(t, "thanks", rebuilt[1].Content)
}

func TestReconstructEmpty(t *testing.T) {
	assert.Empty(t, Reconstruct(nil))
}

func TestRecordDefaultsToolType(t *testing.T) {
	msg := Record(&aisdk.Message{Role: aisdk.RoleAssistant, ToolCalls: []aisdk.ToolCall{{ID: "x", Function: aisdk.FunctionCall{Name: "list_tasks"}}}})
	require.Len(t, msg.ToolCalls, 1)
	assert.Equal(t, "function", msg.ToolCalls[0].Type)
	assert.Equal(t, "", msg.ToolCalls[0].Function.Arguments)
}
