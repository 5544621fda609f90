package tool_updatetask

import (
	"context"

	"github.com/elee1766/taskchat/src/agent"
	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/storage"
	"github.com/elee1766/taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "update_task"

const updateTaskPrompt = `Changes fields of one of the user's tasks.

Usage:
- task_id is required; every other field is optional and only the fields you pass are changed
- priority is one of low, medium, high; status is pending or completed
- due_date is formatted as YYYY-MM-DD; pass an empty string to clear it
- At least one field besides task_id must be given`

// UpdateTaskInput represents the parameters for update_task
type UpdateTaskInput struct {
	TaskID      int64   `json:"task_id" required:"true" minimum:"1" description:"Id of the task to update" validate:"required,gt=0"`
	Title       *string `json:"title,omitempty" maxLength:"200" description:"New title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" maxLength:"2000" description:"New description" validate:"omitempty,max=2000"`
	Priority    *string `json:"priority,omitempty" enum:"low,medium,high" description:"New priority" validate:"omitempty,oneof=low medium high"`
	Status      *string `json:"status,omitempty" enum:"pending,completed" description:"New status" validate:"omitempty,oneof=pending completed"`
	DueDate     *string `json:"due_date,omitempty" description:"New due date (YYYY-MM-DD), empty string clears it"`
}

// UpdateTaskOutput represents the response from update_task
type UpdateTaskOutput struct {
	Task          toolsutil.TaskView `json:"task" description:"The updated task"`
	UpdatedFields []string           `json:"updated_fields" description:"Names of the fields that were changed"`
}

// Tool returns the update_task tool definition
func Tool(store toolsutil.TaskStore) (agent.Tool, error) {
	return agent.NewTypedTool(Name, updateTaskPrompt, makeHandler(store))
}

func makeHandler(store toolsutil.TaskStore) agent.TypedToolHandler[UpdateTaskInput, UpdateTaskOutput] {
	return func(ctx context.Context, userID string, input UpdateTaskInput) (UpdateTaskOutput, error) {
		patch, fields := buildPatch(input)
		if patch.Empty() {
			return UpdateTaskOutput{}, apperr.Validation("tool_updatetask", "provide at least one field to update besides task_id")
		}
		if patch.DueDate != nil && *patch.DueDate != "" {
			if err := storage.ValidateDueDate(*patch.DueDate); err != nil {
				return UpdateTaskOutput{}, err
			}
		}

		task, err := store.UpdateTask(ctx, userID, input.TaskID, patch)
		if err != nil {
			return UpdateTaskOutput{}, err
		}
		return UpdateTaskOutput{
			Task:          toolsutil.NewTaskView(task),
			UpdatedFields: fields,
		}, nil
	}
}

func buildPatch(input UpdateTaskInput) (storage.TaskPatch, []string) {
	var patch storage.TaskPatch
	fields := []string{}
	if input.Title != nil {
		patch.Title = input.Title
		fields = append(fields, "title")
	}
	if input.Description != nil {
		patch.Description = input.Description
		fields = append(fields, "description")
	}
	if input.Priority != nil {
		p := storage.Priority(*input.Priority)
		patch.Priority = &p
		fields = append(fields, "priority")
	}
	if input.Status != nil {
		s := storage.TaskStatus(*input.Status)
		patch.Status = &s
		fields = append(fields, "status")
	}
	if input.DueDate != nil {
		patch.DueDate = input.DueDate
		fields = append(fields, "due_date")
	}
	return patch, fields
}
