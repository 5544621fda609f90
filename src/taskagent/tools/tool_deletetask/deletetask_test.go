package tool_deletetask

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/storage"
)

func TestDeleteTaskTool(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	task := &storage.Task{UserID: "alice", Title: "obsolete"}
	require.NoError(t, db.CreateTask(ctx, task))

	tool, err := Tool(db)
	require.NoError(t, err)
	call := &aisdk.ToolCall{ID: "call_1", Function: aisdk.FunctionCall{Name: Name, Arguments: fmt.Sprintf(`{"task_id":%d}`, task.ID)}}

	// another user cannot delete it
	response, err := tool.Execute(ctx, "bob", call)
	require.NoError(t, err)
	assert.True(t, response.IsError)
	assert.Contains(t, string(response.Content), "not_found")
	_, err = db.GetTask(ctx, "alice", task.ID)
	require.NoError(t, err)

	response, err = tool.Execute(ctx, "alice", call)
	require.NoError(t, err)
	require.False(t, response.IsError)
	var out DeleteTaskOutput
	require.NoError(t, json.Unmarshal(response.Content, &out))
	assert.True(t, out.Deleted)
	assert.Equal(t, "obsolete", out.Task.Title)

	response, err = tool.Execute(ctx, "alice", call)
	require.NoError(t, err)
	assert.True(t, response.IsError)
}
