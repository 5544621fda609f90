package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/apperr"
)

// ToolExecutor is a function type for tool execution
type ToolExecutor func(ctx context.Context, userID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error)

// DefaultToolbox is the toolbox over the Tool interface
type DefaultToolbox = Toolbox[Tool]

// Toolbox is the closed table of tools the model may call.
type Toolbox[T Tool] struct {
	tools      map[string]T
	middleware []ToolMiddleware
}

// ToolMiddleware is a function that wraps a ToolExecutor to add functionality.
type ToolMiddleware func(next ToolExecutor) ToolExecutor

// NewToolbox creates a new tool manager.
func NewToolbox[T Tool]() *Toolbox[T] {
	return &Toolbox[T]{
		tools: make(map[string]T),
	}
}

// RegisterTool registers a tool.
func (tm *Toolbox[T]) RegisterTool(tool T) error {
	if tool.GetName() == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	if _, exists := tm.tools[tool.GetName()]; exists {
		return fmt.Errorf("tool %s is already registered", tool.GetName())
	}

	tm.tools[tool.GetName()] = tool
	return nil
}

// RegisterTools registers every tool and reports all failures together.
func (tm *Toolbox[T]) RegisterTools(tools ...T) error {
	var result *multierror.Error
	for _, tool := range tools {
		if err := tm.RegisterTool(tool); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// RegisterMiddleware registers middleware that will be applied to all tool executions.
// Middleware is applied in the order it's registered (first registered = outermost layer).
func (tm *Toolbox[T]) RegisterMiddleware(middleware ToolMiddleware) {
	tm.middleware = append(tm.middleware, middleware)
}

// Tools returns the registered tools ordered by name
func (tm *Toolbox[T]) Tools() []T {
	out := make([]T, 0, len(tm.tools))
	for _, tool := range tm.tools {
		out = append(out, tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetName() < out[j].GetName() })
	return out
}

// Names returns the registered tool names in order.
func (tm *Toolbox[T]) Names() []string {
	tools := tm.Tools()
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.GetName()
	}
	return names
}

// ChatTools returns the catalog in the form sent to the model.
func (tm *Toolbox[T]) ChatTools() []*aisdk.ChatTool {
	tools := tm.Tools()
	generic := make([]Tool, len(tools))
	for i, tool := range tools {
		generic[i] = tool
	}
	return ToChatTools(generic)
}

// ExecuteTool executes a tool call for userID with middleware applied. Unknown
// tool names are NotFound.
func (tm *Toolbox[T]) ExecuteTool(ctx context.Context, userID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
	tool, exists := tm.tools[call.Function.Name]
	if !exists {
		return nil, apperr.NotFound("agent.ExecuteTool", fmt.Sprintf("unknown tool %q", call.Function.Name))
	}

	toolExecutor := ToolExecutor(func(ctx context.Context, userID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
		return tool.Execute(ctx, userID, call)
	})

	finalExecutor := toolExecutor
	for i := len(tm.middleware) - 1; i >= 0; i-- {
		finalExecutor = tm.middleware[i](finalExecutor)
	}

	return finalExecutor(ctx, userID, call)
}

// GetTool returns a specific tool by name.
func (tm *Toolbox[T]) GetTool(name string) (T, bool) {
	tool, exists := tm.tools[name]
	return tool, exists
}

// HasTool checks if a tool is available.
func (tm *Toolbox[T]) HasTool(name string) bool {
	_, exists := tm.tools[name]
	return exists
}

// LoggingMiddleware logs tool execution details.
func LoggingMiddleware(logger *slog.Logger) ToolMiddleware {
	return func(next ToolExecutor) ToolExecutor {
		return func(ctx context.Context, userID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
			start := time.Now()
			logger.Debug("executing tool", "tool", call.Function.Name, "call_id", call.ID, "params", call.Function.Arguments)
			result, err := next(ctx, userID, call)
			switch {
			case err != nil:
				logger.Warn("tool execution failed", "tool", call.Function.Name, "duration", time.Since(start), "error", err)
			case result != nil && result.IsError:
				logger.Info("tool returned an error", "tool", call.Function.Name, "duration", time.Since(start), "content", string(result.Content))
			default:
				logger.Debug("tool execution completed successfully", "tool", call.Function.Name, "duration", time.Since(start))
			}
			return result, err
		}
	}
}

// TimeoutMiddleware abandons a tool that runs longer than d and reports a
// tool execution error in its place.
//
// The abandoned call is not stopped: it keeps running on its own goroutine
// with a cancelled ctx, and any write it completes after the deadline still
// takes effect even though the model was told the call failed. Handlers are
// bounded only as far as they honour ctx.
func TimeoutMiddleware(d time.Duration) ToolMiddleware {
	return func(next ToolExecutor) ToolExecutor {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, userID string, call *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			type result struct {
				resp *aisdk.ToolResponse
				err  error
			}
			done := make(chan result, 1)
			go func() {
				resp, err := next(ctx, userID, call)
				done <- result{resp, err}
			}()

			select {
			case r := <-done:
				return r.resp, r.err
			case <-ctx.Done():
				if ctx.Err() == context.Canceled {
					return nil, ctx.Err()
				}
				return aisdk.NewErrorToolResponse(apperr.KindToolExecution.String(),
					fmt.Sprintf("tool %s did not finish within %s", call.Function.Name, d)), nil
			}
		}
	}
}
