package tool_listtasks

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/storage"
)

func seed(t *testing.T, db *storage.DB) {
	t.Helper()
	ctx := context.Background()
	for _, task := range []*storage.Task{
		{UserID: "alice", Title: "a", Priority: storage.PriorityLow},
		{UserID: "alice", Title: "b", Priority: storage.PriorityHigh},
		{UserID: "alice", Title: "c", Priority: storage.PriorityHigh},
		{UserID: "bob", Title: "bob's", Priority: storage.PriorityHigh},
	} {
		require.NoError(t, db.CreateTask(ctx, task))
	}
	_, err := db.CompleteTask(ctx, "alice", 2)
	require.NoError(t, err)
}

func TestListTasksTool(t *testing.T) {
	tests := []struct {
		name          string
		args          string
		expectedError bool
		wantTitles    []string
	}{
		{name: "no arguments", args: ``, wantTitles: []string{"a", "b", "c"}},
		{name: "all", args: `{"status":"all"}`, wantTitles: []string{"a", "b", "c"}},
		{name: "pending", args: `{"status":"pending"}`, wantTitles: []string{"a", "c"}},
		{name: "completed high", args: `{"status":"completed","priority":"high"}`, wantTitles: []string{"b"}},
		{name: "limit", args: `{"limit":2}`, wantTitles: []string{"a", "b"}},
		{name: "limit too large", args: `{"limit":500}`, expectedError: true},
		{name: "bad status", args: `{"status":"archived"}`, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := storage.Open(":memory:")
			require.NoError(t, err)
			defer db.Close()
			seed(t, db)

			tool, err := Tool(db)
			require.NoError(t, err)

			response, err := tool.Execute(context.Background(), "alice", &aisdk.ToolCall{
				ID:       "call_1",
				Function: aisdk.FunctionCall{Name: Name, Arguments: tt.args},
			})
			require.NoError(t, err)

			if tt.expectedError {
				assert.True(t, response.IsError)
				return
			}
			require.False(t, response.IsError, string(response.Content))

			var out ListTasksOutput
			require.NoError(t, json.Unmarshal(response.Content, &out))
			titles := []string{}
			for _, task := range out.Tasks {
				titles = append(titles, task.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
			assert.Equal(t, len(tt.wantTitles), out.Count)
		})
	}
}
