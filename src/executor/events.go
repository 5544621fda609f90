package executor

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/elee1766/taskchat/src/aisdk"
)

// ErrSinkClosed is returned when sending to a closed sink.
var ErrSinkClosed = errors.New("event sink is closed")

// EventType represents the type of turn event
type EventType string

const (
	// User events
	EventUserMessage EventType = "user_message"

	// Assistant events
	EventAssistantMessage EventType = "assistant_message"

	// Tool events
	EventToolCallRequest  EventType = "tool_call_request"
	EventToolCallResponse EventType = "tool_call_response"
	EventToolCallError    EventType = "tool_call_error"

	// System events
	EventSystemMessage EventType = "system_message"
	EventError         EventType = "error"
	EventTurnComplete  EventType = "turn_complete"
)

// System message purposes
const (
	PurposeWarning = "warning"
	PurposeInfo    = "info"
)

// ConversationEvent is the base interface for all turn events
type ConversationEvent interface {
	GetType() EventType
	GetTimestamp() time.Time
	GetConversationID() string
}

// BaseEvent contains common fields for all events
type BaseEvent struct {
	Type           EventType `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
}

func (e BaseEvent) GetType() EventType        { return e.Type }
func (e BaseEvent) GetTimestamp() time.Time   { return e.Timestamp }
func (e BaseEvent) GetConversationID() string { return e.ConversationID }

// UserMessageEvent represents a user message
type UserMessageEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// AssistantMessageEvent represents a complete assistant message, either a
// tool request or the final reply.
type AssistantMessageEvent struct {
	BaseEvent
	Content   string           `json:"content"`
	ToolCalls []aisdk.ToolCall `json:"tool_calls,omitempty"`
	Model     string           `json:"model"`
}

// ToolCallRequestEvent represents a tool call request
type ToolCallRequestEvent struct {
	BaseEvent
	ToolCall aisdk.ToolCall `json:"tool_call"`
}

// ToolCallResponseEvent represents a successful tool call response
type ToolCallResponseEvent struct {
	BaseEvent
	ToolName string              `json:"tool_name"`
	ToolID   string              `json:"tool_id"`
	Response *aisdk.ToolResponse `json:"response"`
	Duration time.Duration       `json:"duration"`
}

// ToolCallErrorEvent represents a failed tool call
type ToolCallErrorEvent struct {
	BaseEvent
	ToolName string        `json:"tool_name"`
	ToolID   string        `json:"tool_id"`
	Error    error         `json:"error"`
	Duration time.Duration `json:"duration"`
}

// SystemMessageEvent represents notices from the executor itself
type SystemMessageEvent struct {
	BaseEvent
	Message string `json:"message"`
	Purpose string `json:"purpose"`
}

// ErrorEvent represents an error that aborted the turn
type ErrorEvent struct {
	BaseEvent
	Error   error  `json:"error"`
	Context string `json:"context"` // Where the error occurred
}

// TurnCompleteEvent is emitted once the turn has been persisted
type TurnCompleteEvent struct {
	BaseEvent
	ToolCalls int  `json:"tool_calls"`
	Degraded  bool `json:"degraded"`
}

// EventSink is the interface for handling turn events
type EventSink interface {
	// Send sends an event to the sink
	Send(event ConversationEvent) error

	// Close closes the event sink
	Close() error
}

// EventProcessor processes turn events
type EventProcessor interface {
	// Process handles a single event
	Process(event ConversationEvent) error

	// Close cleans up any resources
	Close() error
}

// ChannelEventSink implements EventSink using Go channels. Events are handed
// to the processors in order on a single goroutine.
type ChannelEventSink struct {
	events     chan ConversationEvent
	processors []EventProcessor
	logger     *slog.Logger
	done       chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewChannelEventSink creates a new channel-based event sink
func NewChannelEventSink(bufferSize int, logger *slog.Logger, processors ...EventProcessor) *ChannelEventSink {
	if logger == nil {
		logger = slog.Default()
	}
	sink := &ChannelEventSink{
		events:     make(chan ConversationEvent, bufferSize),
		processors: processors,
		logger:     logger,
		done:       make(chan struct{}),
	}

	go sink.processEvents()

	return sink
}

// Send sends an event to the sink
func (s *ChannelEventSink) Send(event ConversationEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}
	s.events <- event
	return nil
}

// Close drains pending events and closes the processors
func (s *ChannelEventSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()
	<-s.done

	var firstErr error
	for _, p := range s.processors {
		if err := p.Close(); err != nil {
			s.logger.Warn("failed to close event processor", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *ChannelEventSink) processEvents() {
	defer close(s.done)
	for event := range s.events {
		for _, p := range s.processors {
			if err := p.Process(event); err != nil {
				s.logger.Warn("event processor failed", "event", event.GetType(), "error", err)
			}
		}
	}
}
