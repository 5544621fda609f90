package storage

import (
	"context"
	"database/sql"
)

// CreateTask inserts a task.
func (d *DB) CreateTask(ctx context.Context, task *Task) error {
	return CreateTask(ctx, d.db, task)
}

// GetTask returns a task owned by userID.
func (d *DB) GetTask(ctx context.Context, userID string, id int64) (*Task, error) {
	return GetTask(ctx, d.db, userID, id)
}

// ListTasks returns the user's tasks matching filter.
func (d *DB) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]Task, error) {
	return ListTasks(ctx, d.db, userID, filter)
}

// UpdateTask applies patch to a task owned by userID.
func (d *DB) UpdateTask(ctx context.Context, userID string, id int64, patch TaskPatch) (*Task, error) {
	var out *Task
	err := d.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = UpdateTask(ctx, tx, userID, id, patch)
		return err
	})
	return out, err
}

// CompleteTask marks a task owned by userID completed.
func (d *DB) CompleteTask(ctx context.Context, userID string, id int64) (*Task, error) {
	var out *Task
	err := d.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = CompleteTask(ctx, tx, userID, id)
		return err
	})
	return out, err
}

// DeleteTask removes a task owned by userID.
func (d *DB) DeleteTask(ctx context.Context, userID string, id int64) (*Task, error) {
	var out *Task
	err := d.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = DeleteTask(ctx, tx, userID, id)
		return err
	})
	return out, err
}
