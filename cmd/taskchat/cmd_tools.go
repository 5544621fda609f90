package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/elee1766/taskchat/src/agent"
	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/taskagent"
	"github.com/elee1766/taskchat/src/taskagent/tools"
	"github.com/elee1766/taskchat/src/taskagent/toolsutil"
)

// ToolsCmd represents all tool-related commands
type ToolsCmd struct {
	List   ToolsListCmd   `cmd:"" default:"1" help:"List available tools"`
	Show   ToolsShowCmd   `cmd:"" help:"Show a tool's definition as sent to the model"`
	Prompt ToolsPromptCmd `cmd:"" help:"Print the generated system prompt"`
	Exec   ToolsExecCmd   `cmd:"" help:"Run a tool directly against the database"`
}

// catalog builds the toolbox; store may be nil when no tool is executed.
func catalog(store toolsutil.TaskStore) (*agent.DefaultToolbox, error) {
	toolbox := agent.NewToolbox[agent.Tool]()
	if err := tools.Register(toolbox, store); err != nil {
		return nil, err
	}
	return toolbox, nil
}

// ToolsListCmd lists available tools
type ToolsListCmd struct{}

func (c *ToolsListCmd) Run(kctx *kong.Context, cli *CLI) error {
	toolbox, err := catalog(nil)
	if err != nil {
		return err
	}
	return printTools(os.Stdout, toolbox)
}

func printTools(w io.Writer, toolbox *agent.DefaultToolbox) error {
	rows := lo.Map(toolbox.ChatTools(), func(t *aisdk.ChatTool, _ int) []string {
		return []string{t.Function.Name, cell(t.Function.Description)}
	})
	return renderTable(w, []string{"NAME", "DESCRIPTION"}, rows)
}

// ToolsShowCmd prints one tool definition
type ToolsShowCmd struct {
	Name string `arg:"" help:"Tool name"`
}

func (c *ToolsShowCmd) Run(kctx *kong.Context, cli *CLI) error {
	toolbox, err := catalog(nil)
	if err != nil {
		return err
	}
	def, err := toolDefinition(toolbox, c.Name)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, def)
}

func toolDefinition(toolbox *agent.DefaultToolbox, name string) (*aisdk.ChatTool, error) {
	tool, ok := toolbox.GetTool(name)
	if !ok {
		return nil, apperr.NotFound("tools.show", fmt.Sprintf("unknown tool %q", name))
	}
	return agent.ToChatTool(tool), nil
}

// ToolsPromptCmd prints the system prompt used when none is configured
type ToolsPromptCmd struct{}

func (c *ToolsPromptCmd) Run(kctx *kong.Context, cli *CLI) error {
	toolbox, err := catalog(nil)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, taskagent.GenerateSystemPrompt(toolbox, time.Now()))
	return err
}

// ToolsExecCmd executes a tool as the CLI user, bypassing the model
type ToolsExecCmd struct {
	Name string `arg:"" help:"Tool name"`
	Args string `arg:"" optional:"" default:"{}" help:"JSON arguments"`
}

func (c *ToolsExecCmd) Run(kctx *kong.Context, cli *CLI) error {
	store, _, err := openStore(cli)
	if err != nil {
		return err
	}
	defer store.Close()

	toolbox, err := catalog(store)
	if err != nil {
		return err
	}
	resp, err := toolbox.ExecuteTool(context.Background(), cli.User, &aisdk.ToolCall{
		ID:       "call_" + uuid.NewString(),
		Type:     "function",
		Function: aisdk.FunctionCall{Name: c.Name, Arguments: c.Args},
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(os.Stdout, string(resp.Content)); err != nil {
		return err
	}
	if resp.IsError {
		return fmt.Errorf("tool %s reported an error", c.Name)
	}
	return nil
}
