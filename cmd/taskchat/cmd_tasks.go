package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/samber/lo"

	"github.com/elee1766/taskchat/src/storage"
)

// TasksCmd lists the tasks the assistant manages for the user
type TasksCmd struct {
	Status   string `short:"s" enum:"pending,completed,all" default:"all" help:"Filter by status"`
	Priority string `short:"p" enum:"low,medium,high,all" default:"all" help:"Filter by priority"`
	Limit    int    `short:"n" default:"50" help:"Maximum number of tasks"`
	JSON     bool   `name:"json" help:"Print JSON"`
}

func (c *TasksCmd) Run(kctx *kong.Context, cli *CLI) error {
	store, _, err := openStore(cli)
	if err != nil {
		return err
	}
	defer store.Close()

	filter := storage.TaskFilter{Limit: c.Limit}
	if c.Status != "all" {
		filter.Status = storage.TaskStatus(c.Status)
	}
	if c.Priority != "all" {
		filter.Priority = storage.Priority(c.Priority)
	}
	tasks, err := store.ListTasks(context.Background(), cli.User, filter)
	if err != nil {
		return err
	}
	return printTasks(os.Stdout, tasks, c.JSON)
}

func printTasks(w io.Writer, tasks []storage.Task, asJSON bool) error {
	if asJSON {
		return writeJSON(w, tasks)
	}
	rows := lo.Map(tasks, func(t storage.Task, _ int) []string {
		return []string{
			strconv.FormatInt(t.ID, 10),
			cell(t.Title),
			string(t.Priority),
			string(t.Status),
			lo.FromPtrOr(t.DueDate, "-"),
		}
	})
	return renderTable(w, []string{"ID", "TITLE", "PRIORITY", "STATUS", "DUE"}, rows)
}
