package executor

import (
	"time"

	"github.com/elee1766/taskchat/src/aisdk"
)

// EventEmitter stamps events with common fields. A nil sink discards events;
// send failures are ignored so observers never affect a turn.
type EventEmitter struct {
	sink           EventSink
	conversationID string
}

// NewEventEmitter creates a new event emitter
func NewEventEmitter(sink EventSink, conversationID string) *EventEmitter {
	return &EventEmitter{
		sink:           sink,
		conversationID: conversationID,
	}
}

func (e *EventEmitter) createBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		Type:           eventType,
		Timestamp:      time.Now(),
		ConversationID: e.conversationID,
	}
}

func (e *EventEmitter) send(event ConversationEvent) {
	if e.sink == nil {
		return
	}
	_ = e.sink.Send(event)
}

// EmitUserMessage emits a user message event
func (e *EventEmitter) EmitUserMessage(message string) {
	e.send(&UserMessageEvent{
		BaseEvent: e.createBaseEvent(EventUserMessage),
		Message:   message,
	})
}

// EmitAssistantMessage emits a complete assistant message
func (e *EventEmitter) EmitAssistantMessage(content string, toolCalls []aisdk.ToolCall, model string) {
	e.send(&AssistantMessageEvent{
		BaseEvent: e.createBaseEvent(EventAssistantMessage),
		Content:   content,
		ToolCalls: toolCalls,
		Model:     model,
	})
}

// EmitToolCallRequest emits a tool call request
func (e *EventEmitter) EmitToolCallRequest(toolCall aisdk.ToolCall) {
	e.send(&ToolCallRequestEvent{
		BaseEvent: e.createBaseEvent(EventToolCallRequest),
		ToolCall:  toolCall,
	})
}

// EmitToolCallResponse emits a successful tool call response
func (e *EventEmitter) EmitToolCallResponse(toolName, toolID string, response *aisdk.ToolResponse, duration time.Duration) {
	e.send(&ToolCallResponseEvent{
		BaseEvent: e.createBaseEvent(EventToolCallResponse),
		ToolName:  toolName,
		ToolID:    toolID,
		Response:  response,
		Duration:  duration,
	})
}

// EmitToolCallError emits a failed tool call
func (e *EventEmitter) EmitToolCallError(toolName, toolID string, err error, duration time.Duration) {
	e.send(&ToolCallErrorEvent{
		BaseEvent: e.createBaseEvent(EventToolCallError),
		ToolName:  toolName,
		ToolID:    toolID,
		Error:     err,
		Duration:  duration,
	})
}

// EmitSystemMessage emits a system message
func (e *EventEmitter) EmitSystemMessage(message, purpose string) {
	e.send(&SystemMessageEvent{
		BaseEvent: e.createBaseEvent(EventSystemMessage),
		Message:   message,
		Purpose:   purpose,
	})
}

// EmitError emits an error event
func (e *EventEmitter) EmitError(err error, context string) {
	e.send(&ErrorEvent{
		BaseEvent: e.createBaseEvent(EventError),
		Error:     err,
		Context:   context,
	})
}

// EmitTurnComplete emits a turn completion event
func (e *EventEmitter) EmitTurnComplete(toolCalls int, degraded bool) {
	e.send(&TurnCompleteEvent{
		BaseEvent: e.createBaseEvent(EventTurnComplete),
		ToolCalls: toolCalls,
		Degraded:  degraded,
	})
}
