package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/elee1766/taskchat/src/theme"
)

// ConsoleProcessorConfig configures the console event processor
type ConsoleProcessorConfig struct {
	Output             io.Writer
	Styles             theme.Styles
	ShowToolArguments  bool
	ShowToolResults    bool
	ShowIntermediateAI bool
	// RawMode prints only the final reply, unstyled
	RawMode          bool
	MaxResultPreview int // Max characters to show in result preview
}

// ConsoleEventProcessor renders turn events for a terminal
type ConsoleEventProcessor struct {
	config ConsoleProcessorConfig
	out    io.Writer
}

// NewConsoleEventProcessor creates a new console event processor
func NewConsoleEventProcessor(config ConsoleProcessorConfig) *ConsoleEventProcessor {
	if config.MaxResultPreview == 0 {
		config.MaxResultPreview = 200
	}
	if config.Output == nil {
		config.Output = io.Discard
	}
	if config.RawMode {
		config.Styles = theme.Plain()
	}
	return &ConsoleEventProcessor{config: config, out: config.Output}
}

// Process handles a single event
func (p *ConsoleEventProcessor) Process(event ConversationEvent) error {
	if p.config.RawMode {
		if msg, ok := event.(*AssistantMessageEvent); ok && len(msg.ToolCalls) == 0 {
			_, err := fmt.Fprintln(p.out, msg.Content)
			return err
		}
		return nil
	}

	switch e := event.(type) {
	case *AssistantMessageEvent:
		p.processAssistantMessage(e)
	case *ToolCallRequestEvent:
		p.processToolCallRequest(e)
	case *ToolCallResponseEvent:
		p.processToolCallResponse(e)
	case *ToolCallErrorEvent:
		p.processToolCallError(e)
	case *SystemMessageEvent:
		p.processSystemMessage(e)
	case *ErrorEvent:
		fmt.Fprintln(p.out, p.config.Styles.Error.Render(fmt.Sprintf("error in %s: %v", e.Context, e.Error)))
	}
	return nil
}

// Close cleans up resources
func (p *ConsoleEventProcessor) Close() error {
	return nil
}

func (p *ConsoleEventProcessor) processAssistantMessage(e *AssistantMessageEvent) {
	if len(e.ToolCalls) == 0 {
		fmt.Fprintln(p.out, p.config.Styles.Assistant.Render(e.Content))
		return
	}
	if p.config.ShowIntermediateAI && e.Content != "" {
		fmt.Fprintln(p.out, p.config.Styles.Muted.Render("assistant: "+e.Content))
	}
}

func (p *ConsoleEventProcessor) processToolCallRequest(e *ToolCallRequestEvent) {
	fmt.Fprintln(p.out, p.config.Styles.Tool.Render("→ "+e.ToolCall.Function.Name))
	if !p.config.ShowToolArguments {
		return
	}
	args := e.ToolCall.Function.Arguments
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(args), "    ", "  "); err == nil {
		args = pretty.String()
	}
	fmt.Fprintln(p.out, p.config.Styles.Muted.Render("    "+args))
}

func (p *ConsoleEventProcessor) processToolCallResponse(e *ToolCallResponseEvent) {
	line := "  ✓ " + e.ToolName
	if e.Duration > 0 {
		line += fmt.Sprintf(" (%v)", e.Duration.Round(time.Millisecond))
	}
	fmt.Fprintln(p.out, p.config.Styles.Success.Render(line))

	if p.config.ShowToolResults && e.Response != nil && len(e.Response.Content) > 0 {
		fmt.Fprintln(p.out, p.config.Styles.Muted.Render("    "+p.preview(string(e.Response.Content))))
	}
}

func (p *ConsoleEventProcessor) processToolCallError(e *ToolCallErrorEvent) {
	line := fmt.Sprintf("  ✗ %s: %s", e.ToolName, p.preview(fmt.Sprint(e.Error)))
	fmt.Fprintln(p.out, p.config.Styles.Warning.Render(line))
}

func (p *ConsoleEventProcessor) processSystemMessage(e *SystemMessageEvent) {
	switch e.Purpose {
	case PurposeWarning:
		fmt.Fprintln(p.out, p.config.Styles.Warning.Render("! "+e.Message))
	case PurposeInfo:
		fmt.Fprintln(p.out, p.config.Styles.Muted.Render(e.Message))
	}
}

// preview flattens s onto one line and truncates it.
func (p *ConsoleEventProcessor) preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, p.config.MaxResultPreview, "...")
}
