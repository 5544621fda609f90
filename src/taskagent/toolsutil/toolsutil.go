// Package toolsutil holds what the task tools share: the store contract they
// are closed over, the task view returned to the model, and a package logger.
package toolsutil

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/elee1766/taskchat/src/storage"
)

// Package-level logger for tools
var logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
	Level: slog.LevelError,
}))

// SetLogger allows setting a custom logger for the tools package
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// GetLogger returns the current logger
func GetLogger() *slog.Logger {
	return logger
}

// TaskStore is the task persistence the tools need. Every call is scoped to
// the user id the toolbox injected.
type TaskStore interface {
	CreateTask(ctx context.Context, task *storage.Task) error
	GetTask(ctx context.Context, userID string, id int64) (*storage.Task, error)
	ListTasks(ctx context.Context, userID string, filter storage.TaskFilter) ([]storage.Task, error)
	UpdateTask(ctx context.Context, userID string, id int64, patch storage.TaskPatch) (*storage.Task, error)
	CompleteTask(ctx context.Context, userID string, id int64) (*storage.Task, error)
	DeleteTask(ctx context.Context, userID string, id int64) (*storage.Task, error)
}

var _ TaskStore = (*storage.DB)(nil)

// TaskView is the task representation returned to the model.
type TaskView struct {
	ID          int64  `json:"id" description:"Task id"`
	Title       string `json:"title" description:"Task title"`
	Description string `json:"description,omitempty" description:"Task details"`
	Priority    string `json:"priority" description:"low, medium or high"`
	Status      string `json:"status" description:"pending or completed"`
	DueDate     string `json:"due_date,omitempty" description:"Due date (YYYY-MM-DD)"`
	CreatedAt   string `json:"created_at" description:"Creation time (RFC 3339)"`
	CompletedAt string `json:"completed_at,omitempty" description:"Completion time (RFC 3339)"`
}

// NewTaskView converts a stored task.
func NewTaskView(t *storage.Task) TaskView {
	v := TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.DueDate != nil {
		v.DueDate = *t.DueDate
	}
	if t.CompletedAt != nil {
		v.CompletedAt = t.CompletedAt.UTC().Format(time.RFC3339)
	}
	return v
}

// NewTaskViews converts a list of stored tasks.
func NewTaskViews(tasks []storage.Task) []TaskView {
	return lo.Map(tasks, func(t storage.Task, _ int) TaskView {
		return NewTaskView(&t)
	})
}
