// Package tools assembles the fixed catalog of task tools.
package tools

import (
	"github.com/hashicorp/go-multierror"

	"github.com/elee1766/taskchat/src/agent"
	tool_addtask "github.com/elee1766/taskchat/src/taskagent/tools/tool_addtask"
	tool_completetask "github.com/elee1766/taskchat/src/taskagent/tools/tool_completetask"
	tool_deletetask "github.com/elee1766/taskchat/src/taskagent/tools/tool_deletetask"
	tool_listtasks "github.com/elee1766/taskchat/src/taskagent/tools/tool_listtasks"
	tool_updatetask "github.com/elee1766/taskchat/src/taskagent/tools/tool_updatetask"
	"github.com/elee1766/taskchat/src/taskagent/toolsutil"
)

// Tool name constants - re-exported from individual packages
const (
	AddTaskName      = tool_addtask.Name
	ListTasksName    = tool_listtasks.Name
	CompleteTaskName = tool_completetask.Name
	UpdateTaskName   = tool_updatetask.Name
	DeleteTaskName   = tool_deletetask.Name
)

// Names lists every tool in the catalog.
func Names() []string {
	return []string{AddTaskName, CompleteTaskName, DeleteTaskName, ListTasksName, UpdateTaskName}
}

type constructor func(store toolsutil.TaskStore) (agent.Tool, error)

var catalog = []constructor{
	tool_addtask.Tool,
	tool_listtasks.Tool,
	tool_completetask.Tool,
	tool_updatetask.Tool,
	tool_deletetask.Tool,
}

// All builds every task tool over store.
func All(store toolsutil.TaskStore) ([]agent.Tool, error) {
	var result *multierror.Error
	out := make([]agent.Tool, 0, len(catalog))
	for _, mk := range catalog {
		tool, err := mk(store)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		out = append(out, tool)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// Register adds the whole catalog to toolbox.
func Register(toolbox *agent.DefaultToolbox, store toolsutil.TaskStore) error {
	tools, err := All(store)
	if err != nil {
		return err
	}
	return toolbox.RegisterTools(tools...)
}
