package tool_listtasks

import (
	"context"

	"github.com/elee1766/taskchat/src/agent"
	"github.com/elee1766/taskchat/src/storage"
	"github.com/elee1766/taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "list_tasks"

const listTasksPrompt = `Lists the user's tasks, oldest first.

Usage:
- status filters by pending or completed; use all (the default) for both
- priority filters by low, medium or high
- limit caps the number of tasks returned (default 20, at most 50)
- Use this before completing, updating or deleting a task when you do not know its id`

// ListTasksInput represents the parameters for list_tasks
type ListTasksInput struct {
	Status   string `json:"status,omitempty" enum:"pending,completed,all" description:"Filter by status, defaults to all" validate:"omitempty,oneof=pending completed all"`
	Priority string `json:"priority,omitempty" enum:"low,medium,high" description:"Filter by priority" validate:"omitempty,oneof=low medium high"`
	Limit    int    `json:"limit,omitempty" minimum:"1" maximum:"50" description:"Maximum number of tasks to return" validate:"omitempty,min=1,max=50"`
}

// ListTasksOutput represents the response from list_tasks
type ListTasksOutput struct {
	Tasks []toolsutil.TaskView `json:"tasks" description:"Matching tasks"`
	Count int                  `json:"count" description:"Number of tasks returned"`
}

// Tool returns the list_tasks tool definition
func Tool(store toolsutil.TaskStore) (agent.Tool, error) {
	return agent.NewTypedTool(Name, listTasksPrompt, makeHandler(store))
}

func makeHandler(store toolsutil.TaskStore) agent.TypedToolHandler[ListTasksInput, ListTasksOutput] {
	return func(ctx context.Context, userID string, input ListTasksInput) (ListTasksOutput, error) {
		filter := storage.TaskFilter{
			Priority: storage.Priority(input.Priority),
			Limit:    input.Limit,
		}
		if input.Status != "all" {
			filter.Status = storage.TaskStatus(input.Status)
		}

		tasks, err := store.ListTasks(ctx, userID, filter)
		if err != nil {
			return ListTasksOutput{}, err
		}
		return ListTasksOutput{
			Tasks: toolsutil.NewTaskViews(tasks),
			Count: len(tasks),
		}, nil
	}
}
