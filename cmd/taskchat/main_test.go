package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/chat"
	"github.com/elee1766/taskchat/src/config"
	"github.com/elee1766/taskchat/src/executor"
	"github.com/elee1766/taskchat/src/orclient"
	"github.com/elee1766/taskchat/src/storage"
	"github.com/elee1766/taskchat/src/taskagent/tools"
	"github.com/elee1766/taskchat/src/theme"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"canceled", fmt.Errorf("turn: %w", context.Canceled), ExitInterrupted},
		{"missing key", orclient.ErrNoAPIKey, ExitAuth},
		{"configuration", errors.New("configuration: bad"), ExitConfig},
		{"validation", apperr.Validation("op", "bad"), ExitUsage},
		{"not found", apperr.NotFound("op", "missing"), ExitNotFound},
		{"ownership", apperr.Ownership("op", "nope"), ExitNotFound},
		{"upstream", apperr.Upstream("op", errors.New("502")), ExitUpstream},
		{"internal", apperr.Internal("op", errors.New("disk")), ExitInternal},
		{"plain", errors.New("boom"), ExitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "boom", userMessage(errors.New("boom")))
	assert.Equal(t, "internal error", userMessage(apperr.Internal("op", errors.New("secret path"))))
	assert.Contains(t, userMessage(apperr.Upstream("op", errors.New("x"))), "temporarily unavailable")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
}

func TestCreateCLILoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := createCLILogger("info", "json", &buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
}

// fakeSender records requests and replies in order; it emits a final
// assistant event so console rendering can be checked.
type fakeSender struct {
	requests []*executor.SendRequest
	err      error
}

func (f *fakeSender) Send(ctx context.Context, req *executor.SendRequest) (*executor.SendResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	id := req.ConversationID
	if id == "" {
		id = fmt.Sprintf("conv-%d", len(f.requests))
	}
	reply := "ok: " + req.Message
	executor.NewEventEmitter(req.EventSink, id).EmitAssistantMessage(reply, nil, "fake")
	return &executor.SendResult{ConversationID: id, Title: req.Message, Response: reply}, nil
}

func newTestSession(s *fakeSender, out io.Writer) *chatSession {
	return &chatSession{
		exec:   s,
		userID: "alice",
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		console: executor.ConsoleProcessorConfig{
			Styles: theme.Plain(),
		},
	}
}

func TestChatSessionOneShot(t *testing.T) {
	sender := &fakeSender{}
	var out bytes.Buffer

	require.NoError(t, newTestSession(sender, &out).send(context.Background(), "hello"))
	assert.Contains(t, out.String(), "ok: hello")
	require.Len(t, sender.requests, 1)
	assert.Equal(t, "alice", sender.requests[0].UserID)
	assert.Empty(t, sender.requests[0].ConversationID)
}

func TestChatSessionJSON(t *testing.T) {
	sender := &fakeSender{}
	var out bytes.Buffer
	s := newTestSession(sender, &out)
	s.json = true

	require.NoError(t, s.send(context.Background(), "hello"))
	assert.Nil(t, sender.requests[0].EventSink)
	assert.Contains(t, out.String(), `"conversation_id": "conv-1"`)
	assert.Contains(t, out.String(), `"response": "ok: hello"`)
}

func TestChatSessionInteractive(t *testing.T) {
	sender := &fakeSender{}
	var out bytes.Buffer
	in := strings.NewReader("first\n\nsecond\n/new\nthird\n/exit\nignored\n")

	require.NoError(t, newTestSession(sender, &out).interactive(context.Background(), in))

	require.Len(t, sender.requests, 3)
	assert.Empty(t, sender.requests[0].ConversationID)
	assert.Equal(t, "conv-1", sender.requests[1].ConversationID, "turns continue the same conversation")
	assert.Empty(t, sender.requests[2].ConversationID, "/new starts over")
	assert.Contains(t, out.String(), "ok: third")
	assert.NotContains(t, out.String(), "ignored")
}

func TestChatSessionInteractiveSurvivesErrors(t *testing.T) {
	sender := &fakeSender{err: apperr.Upstream("op", errors.New("down"))}
	var out bytes.Buffer
	in := strings.NewReader("one\ntwo\n")

	require.NoError(t, newTestSession(sender, &out).interactive(context.Background(), in))
	assert.Len(t, sender.requests, 2)
	assert.Equal(t, 2, strings.Count(out.String(), "temporarily unavailable"))
}

func TestPrintTables(t *testing.T) {
	t.Run("conversations", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printConversations(&out, []chat.ConversationView{
			{ID: "c1", Title: "Groceries", MessageCount: 4, UpdatedAt: "2026-01-02T03:04:05.000Z"},
		}, false))
		assert.Contains(t, out.String(), "Groceries")
		assert.Contains(t, out.String(), "c1")
	})

	t.Run("empty", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printConversations(&out, nil, false))
		assert.Contains(t, out.String(), "(none)")
	})

	t.Run("tasks", func(t *testing.T) {
		due := "2026-03-01"
		var out bytes.Buffer
		require.NoError(t, printTasks(&out, []storage.Task{
			{ID: 7, Title: "Buy milk", Priority: storage.PriorityHigh, Status: storage.StatusPending, DueDate: &due},
			{ID: 8, Title: "Call mom", Priority: storage.PriorityLow, Status: storage.StatusCompleted},
		}, false))
		assert.Contains(t, out.String(), "Buy milk")
		assert.Contains(t, out.String(), "2026-03-01")
		assert.Contains(t, out.String(), "completed")
	})

	t.Run("tasks json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, printTasks(&out, []storage.Task{{ID: 7, Title: "Buy milk"}}, true))
		assert.Contains(t, out.String(), `"title": "Buy milk"`)
	})

	t.Run("tools", func(t *testing.T) {
		toolbox, err := catalog(nil)
		require.NoError(t, err)
		var out bytes.Buffer
		require.NoError(t, printTools(&out, toolbox))
		for _, name := range tools.Names() {
			assert.Contains(t, out.String(), name)
		}
	})
}

func TestToolDefinition(t *testing.T) {
	toolbox, err := catalog(nil)
	require.NoError(t, err)

	def, err := toolDefinition(toolbox, tools.AddTaskName)
	require.NoError(t, err)
	assert.Equal(t, tools.AddTaskName, def.Function.Name)
	assert.Equal(t, "function", def.Type)
	assert.NotNil(t, def.Function.Parameters)

	_, err = toolDefinition(toolbox, "drop_tables")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, ExitNotFound, exitCode(err))
}

func TestPrintTranscript(t *testing.T) {
	var out bytes.Buffer
	printTranscript(&out, &chat.Transcript{
		Conversation: chat.ConversationView{ID: "c1", Title: "Groceries", MessageCount: 4},
		Messages: []chat.TranscriptMessage{
			{Role: "user", Content: "add milk"},
			{Role: "assistant", ToolCalls: []string{"add_task"}},
			{Role: "tool", ToolName: "add_task", Content: `{"task":{"id":1}}`},
			{Role: "assistant", Content: "Added milk."},
		},
	}, theme.Plain())

	text := out.String()
	assert.Contains(t, text, "Groceries")
	assert.Contains(t, text, "you: add milk")
	assert.Contains(t, text, "calls add_task")
	assert.Contains(t, text, "assistant: Added milk.")
}

func TestCell(t *testing.T) {
	assert.Equal(t, "a b", cell("a\n  b"))
	long := strings.Repeat("x", maxCellWidth+10)
	assert.LessOrEqual(t, len([]rune(cell(long))), maxCellWidth)
}

func TestPrintConfigDiff(t *testing.T) {
	base := config.DefaultConfig()

	var same bytes.Buffer
	require.NoError(t, printConfigDiff(&same, base, config.DefaultConfig()))
	assert.Contains(t, same.String(), "matches the defaults")

	effective := config.DefaultConfig()
	effective.Agent.Model = "openai/gpt-4o"
	effective.API.APIKey = "secret"

	var out bytes.Buffer
	require.NoError(t, printConfigDiff(&out, base, effective))
	text := out.String()
	assert.Contains(t, text, "--- defaults")
	assert.Contains(t, text, `+    "model": "openai/gpt-4o"`)
	assert.NotContains(t, text, "secret")
}
