package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/elee1766/taskchat/src/apperr"
)

const (
	DefaultTaskListLimit = 20
	MaxTaskListLimit     = 50
	DueDateLayout        = "2006-01-02"
)

const taskColumns = `id, user_id, title, description, priority, status, due_date, created_at, updated_at, completed_at`

func taskNotFound(op string, id int64) error {
	return apperr.NotFound(op, fmt.Sprintf("task %d not found", id))
}

// ValidateDueDate checks a YYYY-MM-DD date.
func ValidateDueDate(s string) error {
	if _, err := time.Parse(DueDateLayout, s); err != nil {
		return apperr.Validationf("storage.ValidateDueDate", "due date %q must be formatted as YYYY-MM-DD", s)
	}
	return nil
}

// CreateTask inserts a new pending task and fills in its id and timestamps.
func CreateTask(ctx context.Context, db Execer, task *Task) error {
	const op = "storage.CreateTask"
	task.Title = strings.TrimSpace(task.Title)
	if task.UserID == "" {
		return apperr.Validation(op, "user id is required")
	}
	if task.Title == "" {
		return apperr.Validation(op, "title is required")
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if !task.Priority.Valid() {
		return apperr.Validationf(op, "invalid priority %q", task.Priority)
	}
	if task.DueDate != nil {
		if err := ValidateDueDate(*task.DueDate); err != nil {
			return err
		}
	}
	task.Status = StatusPending
	task.CreatedAt = now()
	task.UpdatedAt = task.CreatedAt
	task.CompletedAt = nil

	query := `INSERT INTO tasks (user_id, title, description, priority, status, due_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query,
		task.UserID, task.Title, task.Description, task.Priority, task.Status, task.DueDate, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return apperr.Internal(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return apperr.Internal(op, err)
	}
	task.ID = id
	return nil
}

// GetTask returns the task with id if userID owns it. Tasks of other users
// are reported as not found.
func GetTask(ctx context.Context, db sqlscan.Querier, userID string, id int64) (*Task, error) {
	const op = "storage.GetTask"
	var task Task
	err := sqlscan.Get(ctx, db, &task, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskNotFound(op, id)
		}
		return nil, apperr.Internal(op, err)
	}
	return &task, nil
}

// ListTasks returns the user's tasks matching filter, oldest first.
func ListTasks(ctx context.Context, db sqlscan.Querier, userID string, filter TaskFilter) ([]Task, error) {
	const op = "storage.ListTasks"
	where := []string{"user_id = ?"}
	args := []any{userID}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, apperr.Validationf(op, "invalid status %q", filter.Status)
		}
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		if !filter.Priority.Valid() {
			return nil, apperr.Validationf(op, "invalid priority %q", filter.Priority)
		}
		where = append(where, "priority = ?")
		args = append(args, filter.Priority)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultTaskListLimit
	}
	limit = clamp(limit, 1, MaxTaskListLimit)
	args = append(args, limit)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id LIMIT ?`
	var tasks []Task
	if err := sqlscan.Select(ctx, db, &tasks, query, args...); err != nil {
		return nil, apperr.Internal(op, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// UpdateTask changes only the fields present in patch.
func UpdateTask(ctx context.Context, db ExecQuerier, userID string, id int64, patch TaskPatch) (*Task, error) {
	const op = "storage.UpdateTask"
	if patch.Empty() {
		return nil, apperr.Validation(op, "no fields to update")
	}

	ts := now()
	sets := []string{}
	args := []any{}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperr.Validation(op, "title cannot be empty")
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apperr.Validationf(op, "invalid priority %q", *patch.Priority)
		}
		sets = append(sets, "priority = ?")
		args = append(args, *patch.Priority)
	}
	if patch.DueDate != nil {
		if *patch.DueDate == "" {
			sets = append(sets, "due_date = NULL")
		} else {
			if err := ValidateDueDate(*patch.DueDate); err != nil {
				return nil, err
			}
			sets = append(sets, "due_date = ?")
			args = append(args, *patch.DueDate)
		}
	}
	if patch.Status != nil {
		switch *patch.Status {
		case StatusCompleted:
			sets = append(sets, "status = ?", "completed_at = COALESCE(completed_at, ?)")
			args = append(args, StatusCompleted, ts)
		case StatusPending:
			sets = append(sets, "status = ?", "completed_at = NULL")
			args = append(args, StatusPending)
		default:
			return nil, apperr.Validationf(op, "invalid status %q", *patch.Status)
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, ts, id, userID)

	res, err := db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, apperr.Internal(op, err)
	} else if n == 0 {
		return nil, taskNotFound(op, id)
	}
	return GetTask(ctx, db, userID, id)
}

// CompleteTask marks a task completed. Completing an already completed task
// leaves it unchanged.
func CompleteTask(ctx context.Context, db ExecQuerier, userID string, id int64) (*Task, error) {
	const op = "storage.CompleteTask"
	ts := now()
	query := `UPDATE tasks SET status = ?, completed_at = ?, updated_at = ? WHERE id = ? AND user_id = ? AND status != ?`
	if _, err := db.ExecContext(ctx, query, StatusCompleted, ts, ts, id, userID, StatusCompleted); err != nil {
		return nil, apperr.Internal(op, err)
	}
	return GetTask(ctx, db, userID, id)
}

// DeleteTask removes a task and returns what was deleted.
func DeleteTask(ctx context.Context, db ExecQuerier, userID string, id int64) (*Task, error) {
	const op = "storage.DeleteTask"
	task, err := GetTask(ctx, db, userID, id)
	if err != nil {
		return nil, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return nil, apperr.Internal(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, taskNotFound(op, id)
	}
	return task, nil
}
