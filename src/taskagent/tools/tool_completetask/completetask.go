package tool_completetask

import (
	"context"

	"github.com/elee1766/taskchat/src/agent"
	"github.com/elee1766/taskchat/src/storage"
	"github.com/elee1766/taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "complete_task"

const completeTaskPrompt = `Marks one of the user's tasks as completed.

Usage:
- task_id is the id returned by add_task or list_tasks
- Completing a task that is already completed is harmless and reports already_completed
- A task id that does not exist (or belongs to someone else) returns a not_found error`

// CompleteTaskInput represents the parameters for complete_task
type CompleteTaskInput struct {
	TaskID int64 `json:"task_id" required:"true" minimum:"1" description:"Id of the task to complete" validate:"required,gt=0"`
}

// CompleteTaskOutput represents the response from complete_task
type CompleteTaskOutput struct {
	Task             toolsutil.TaskView `json:"task" description:"The completed task"`
	AlreadyCompleted bool               `json:"already_completed" description:"Whether the task was already completed"`
}

// Tool returns the complete_task tool definition
func Tool(store toolsutil.TaskStore) (agent.Tool, error) {
	return agent.NewTypedTool(Name, completeTaskPrompt, makeHandler(store))
}

func makeHandler(store toolsutil.TaskStore) agent.TypedToolHandler[CompleteTaskInput, CompleteTaskOutput] {
	return func(ctx context.Context, userID string, input CompleteTaskInput) (CompleteTaskOutput, error) {
		before, err := store.GetTask(ctx, userID, input.TaskID)
		if err != nil {
			return CompleteTaskOutput{}, err
		}
		task, err := store.CompleteTask(ctx, userID, input.TaskID)
		if err != nil {
			return CompleteTaskOutput{}, err
		}
		return CompleteTaskOutput{
			Task:             toolsutil.NewTaskView(task),
			AlreadyCompleted: before.Status == storage.StatusCompleted,
		}, nil
	}
}
