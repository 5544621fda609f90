package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/apperr"
)

type echoInput struct {
	Text     string `json:"text" required:"true" description:"Text to echo" validate:"required"`
	Priority string `json:"priority,omitempty" enum:"low,medium,high" validate:"omitempty,oneof=low medium high"`
	Count    int    `json:"count,omitempty" minimum:"1" maximum:"5" validate:"omitempty,min=1,max=5"`
}

type echoOutput struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

func newEchoTool(t *testing.T) *TypedTool[echoInput, echoOutput] {
	t.Helper()
	tool, err := NewTypedTool("echo", "Echo text back", func(ctx context.Context, userID string, in echoInput) (echoOutput, error) {
		if in.Text == "missing" {
			return echoOutput{}, apperr.NotFound("echo", "nothing to echo")
		}
		if in.Text == "boom" {
			return echoOutput{}, errors.New("database is locked")
		}
		return echoOutput{Text: in.Text, UserID: userID}, nil
	})
	require.NoError(t, err)
	return tool
}

func call(name, args string) *aisdk.ToolCall {
	return &aisdk.ToolCall{ID: "call_1", Type: "function", Function: aisdk.FunctionCall{Name: name, Arguments: args}}
}

func decodeError(t *testing.T, resp *aisdk.ToolResponse) aisdk.ToolError {
	t.Helper()
	require.True(t, resp.IsError)
	var payload struct {
		Error aisdk.ToolError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Content, &payload))
	return payload.Error
}

func TestTypedToolSchema(t *testing.T) {
	tool := newEchoTool(t)
	schema := tool.GetParameters()
	require.NotNil(t, schema)
	assert.Contains(t, schema.Required, "text")
	assert.Contains(t, schema.Properties, "text")
	assert.Contains(t, schema.Properties, "priority")
	assert.Equal(t, "function", tool.GetType())
}

func TestTypedToolExecute(t *testing.T) {
	tool := newEchoTool(t)

	tests := []struct {
		name     string
		args     string
		wantKind string
		wantText string
	}{
		{name: "success", args: `{"text":"hi"}`, wantText: "hi"},
		{name: "malformed json", args: `{"text":`, wantKind: "validation"},
		{name: "not an object", args: `["hi"]`, wantKind: "validation"},
		{name: "missing required", args: `{}`, wantKind: "validation"},
		{name: "empty document", args: ``, wantKind: "validation"},
		{name: "wrong type", args: `{"text": 5}`, wantKind: "validation"},
		{name: "bad enum", args: `{"text":"hi","priority":"urgent"}`, wantKind: "validation"},
		{name: "out of range", args: `{"text":"hi","count":9}`, wantKind: "validation"},
		{name: "domain not found", args: `{"text":"missing"}`, wantKind: "not_found"},
		{name: "internal failure hidden", args: `{"text":"boom"}`, wantKind: "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := tool.Execute(context.Background(), "alice", call("echo", tt.args))
			require.NoError(t, err)
			require.NotNil(t, resp)
			if tt.wantKind != "" {
				e := decodeError(t, resp)
				assert.Equal(t, tt.wantKind, e.Kind)
				assert.NotContains(t, e.Message, "database is locked")
				return
			}
			require.False(t, resp.IsError, string(resp.Content))
			var out echoOutput
			require.NoError(t, json.Unmarshal(resp.Content, &out))
			assert.Equal(t, tt.wantText, out.Text)
			assert.Equal(t, "alice", out.UserID)
		})
	}
}

func TestUserIDCannotBeSpoofed(t *testing.T) {
	tool := newEchoTool(t)
	resp, err := tool.Execute(context.Background(), "alice", call("echo", `{"text":"hi","user_id":"bob"}`))
	require.NoError(t, err)
	var out echoOutput
	require.NoError(t, json.Unmarshal(resp.Content, &out))
	assert.Equal(t, "alice", out.UserID)
}

func TestToolboxRegistration(t *testing.T) {
	tb := NewToolbox[Tool]()
	require.NoError(t, tb.RegisterTool(newEchoTool(t)))

	err := tb.RegisterTools(newEchoTool(t), newEchoTool(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")

	assert.True(t, tb.HasTool("echo"))
	tool, ok := tb.GetTool("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", tool.GetName())
	_, ok = tb.GetTool("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"echo"}, tb.Names())
	chat := tb.ChatTools()
	require.Len(t, chat, 1)
	assert.Equal(t, "echo", chat[0].Function.Name)
}

func TestToolboxUnknownTool(t *testing.T) {
	tb := NewToolbox[Tool]()
	_, err := tb.ExecuteTool(context.Background(), "alice", call("drop_tables", `{}`))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestToChatToolsSorted(t *testing.T) {
	mk := func(name string) Tool {
		return MustNewTypedTool(name, name, func(ctx context.Context, userID string, in echoInput) (echoOutput, error) {
			return echoOutput{}, nil
		})
	}
	chat := ToChatTools([]Tool{mk("zeta"), mk("alpha"), mk("mid")})
	names := []string{chat[0].Function.Name, chat[1].Function.Name, chat[2].Function.Name}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestMiddlewareOrder(t *testing.T) {
	tb := NewToolbox[Tool]()
	require.NoError(t, tb.RegisterTool(newEchoTool(t)))

	var order []string
	mw := func(label string) ToolMiddleware {
		return func(next ToolExecutor) ToolExecutor {
			return func(ctx context.Context, userID string, c *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
				order = append(order, label)
				return next(ctx, userID, c)
			}
		}
	}
	tb.RegisterMiddleware(mw("outer"))
	tb.RegisterMiddleware(mw("inner"))
	tb.RegisterMiddleware(LoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))

	resp, err := tb.ExecuteTool(context.Background(), "alice", call("echo", `{"text":"x"}`))
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestTimeoutMiddleware(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	hung := ToolExecutor(func(ctx context.Context, userID string, c *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
		<-release
		return &aisdk.ToolResponse{Type: "success"}, nil
	})

	exec := TimeoutMiddleware(20 * time.Millisecond)(hung)
	resp, err := exec(context.Background(), "alice", call("slow", `{}`))
	require.NoError(t, err)
	assert.Equal(t, "tool_execution", decodeError(t, resp).Kind)

	fast := TimeoutMiddleware(time.Second)(func(ctx context.Context, userID string, c *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
		return &aisdk.ToolResponse{Type: "success", Content: []byte(`{}`)}, nil
	})
	resp, err = fast(context.Background(), "alice", call("fast", `{}`))
	require.NoError(t, err)
	assert.False(t, resp.IsError)
}

func TestTimeoutMiddlewareCancelsAbandonedCall(t *testing.T) {
	cause := make(chan error, 1)
	slow := ToolExecutor(func(ctx context.Context, userID string, c *aisdk.ToolCall) (*aisdk.ToolResponse, error) {
		<-ctx.Done()
		cause <- ctx.Err()
		return nil, ctx.Err()
	})

	resp, err := TimeoutMiddleware(20*time.Millisecond)(slow)(context.Background(), "alice", call("slow", `{}`))
	require.NoError(t, err)
	assert.True(t, resp.IsError)

	select {
	case err := <-cause:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("abandoned call never saw its context end")
	}
}
