package tool_addtask

import (
	"context"
	"strings"

	"github.com/elee1766/taskchat/src/agent"
	"github.com/elee1766/taskchat/src/storage"
	"github.com/elee1766/taskchat/src/taskagent/toolsutil"
)

// Tool name constant
const Name = "add_task"

const addTaskPrompt = `Creates a new task for the user.

Usage:
- title is required; keep it short and imperative ("Buy milk", "Call the dentist")
- description holds any extra detail the user gave
- priority is one of low, medium, high and defaults to medium
- due_date is an optional calendar date formatted as YYYY-MM-DD; resolve relative dates ("tomorrow") before calling
- The created task, including its id, is returned`

// AddTaskInput represents the parameters for add_task
type AddTaskInput struct {
	Title       string `json:"title" required:"true" minLength:"1" maxLength:"200" description:"Short title of the task" validate:"required,max=200"`
	Description string `json:"description,omitempty" maxLength:"2000" description:"Optional longer description" validate:"max=2000"`
	Priority    string `json:"priority,omitempty" enum:"low,medium,high" description:"Task priority, defaults to medium" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"due_date,omitempty" format:"date" description:"Optional due date formatted as YYYY-MM-DD" validate:"omitempty,datetime=2006-01-02"`
}

// AddTaskOutput represents the response from add_task
type AddTaskOutput struct {
	Task    toolsutil.TaskView `json:"task" description:"The created task"`
	Message string             `json:"message" description:"Confirmation message"`
}

// Tool returns the add_task tool definition
func Tool(store toolsutil.TaskStore) (agent.Tool, error) {
	return agent.NewTypedTool(Name, addTaskPrompt, makeHandler(store))
}

func makeHandler(store toolsutil.TaskStore) agent.TypedToolHandler[AddTaskInput, AddTaskOutput] {
	return func(ctx context.Context, userID string, input AddTaskInput) (AddTaskOutput, error) {
		task := &storage.Task{
			UserID:      userID,
			Title:       strings.TrimSpace(input.Title),
			Description: strings.TrimSpace(input.Description),
			Priority:    storage.Priority(input.Priority),
		}
		if input.DueDate != "" {
			due := input.DueDate
			task.DueDate = &due
		}
		if err := store.CreateTask(ctx, task); err != nil {
			return AddTaskOutput{}, err
		}

		toolsutil.GetLogger().Info("task created", "task_id", task.ID)
		return AddTaskOutput{
			Task:    toolsutil.NewTaskView(task),
			Message: "Task created",
		}, nil
	}
}
