package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elee1766/taskchat/src/agent"
	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/storage"
)

func TestRegisterCatalog(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	toolbox := agent.NewToolbox[agent.Tool]()
	require.NoError(t, Register(toolbox, db))
	assert.Equal(t, Names(), toolbox.Names())

	for _, tool := range toolbox.Tools() {
		schema := tool.GetParameters()
		require.NotNil(t, schema, tool.GetName())
		assert.NotEmpty(t, tool.GetDescription(), tool.GetName())
	}

	// registering twice is rejected for every tool
	err = Register(toolbox, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 errors occurred")
}

func TestCatalogRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	toolbox := agent.NewToolbox[agent.Tool]()
	require.NoError(t, Register(toolbox, db))

	run := func(name, args string) *aisdk.ToolResponse {
		resp, err := toolbox.ExecuteTool(ctx, "alice", &aisdk.ToolCall{ID: "c", Type: "function", Function: aisdk.FunctionCall{Name: name, Arguments: args}})
		require.NoError(t, err)
		require.False(t, resp.IsError, string(resp.Content))
		return resp
	}

	run(AddTaskName, `{"title":"Buy milk"}`)
	run(CompleteTaskName, `{"task_id":1}`)
	run(UpdateTaskName, `{"task_id":1,"priority":"high"}`)
	resp := run(ListTasksName, `{"status":"completed"}`)
	assert.Contains(t, string(resp.Content), `"Buy milk"`)
	run(DeleteTaskName, `{"task_id":1}`)

	tasks, err := db.ListTasks(ctx, "alice", storage.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
