package tool_deletetask

import (
	"context"

	"github.com/elee1766/taskchat/src/agent"
	"github.com/elee1766/taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "delete_task"

const deleteTaskPrompt = `Permanently deletes one of the user's tasks.

Usage:
- task_id is the id returned by add_task or list_tasks
- Only delete when the user clearly asks to remove the task; prefer complete_task for finished work
- A task id that does not exist (or belongs to someone else) returns a not_found error`

// DeleteTaskInput represents the parameters for delete_task
type DeleteTaskInput struct {
	TaskID int64 `json:"task_id" required:"true" minimum:"1" description:"Id of the task to delete" validate:"required,gt=0"`
}

// DeleteTaskOutput represents the response from delete_task
type DeleteTaskOutput struct {
	Deleted bool               `json:"deleted" description:"Whether the task was deleted"`
	Task    toolsutil.TaskView `json:"task" description:"The task as it was before deletion"`
}

// Tool returns the delete_task tool definition
func Tool(store toolsutil.TaskStore) (agent.Tool, error) {
	return agent.NewTypedTool(Name, deleteTaskPrompt, makeHandler(store))
}

func makeHandler(store toolsutil.TaskStore) agent.TypedToolHandler[DeleteTaskInput, DeleteTaskOutput] {
	return func(ctx context.Context, userID string, input DeleteTaskInput) (DeleteTaskOutput, error) {
		task, err := store.DeleteTask(ctx, userID, input.TaskID)
		if err != nil {
			return DeleteTaskOutput{}, err
		}
		toolsutil.GetLogger().Info("task deleted", "task_id", task.ID)
		return DeleteTaskOutput{Deleted: true, Task: toolsutil.NewTaskView(task)}, nil
	}
}
