// Package chat is the boundary callers use to talk to the assistant and to
// browse their conversations.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/executor"
	"github.com/elee1766/taskchat/src/storage"
)

// Boundary is the caller-facing chat API.
type Boundary interface {
	SendMessage(ctx context.Context, userID, text, conversationID string) (*Reply, error)
	ListConversations(ctx context.Context, userID string, limit, offset int) ([]ConversationView, error)
	GetConversation(ctx context.Context, userID, conversationID string) (*Transcript, error)
	DeleteConversation(ctx context.Context, userID, conversationID string) error
}

// Store is the conversation persistence the boundary reads directly.
type Store interface {
	GetConversation(ctx context.Context, conversationID, userID string) (*storage.Conversation, error)
	ListConversations(ctx context.Context, userID string, limit, offset int) ([]storage.ConversationSummary, error)
	LoadMessages(ctx context.Context, conversationID, userID string, maxCount int) ([]storage.Message, error)
	DeleteConversation(ctx context.Context, conversationID, userID string) error
}

// Sender runs a turn.
type Sender interface {
	Send(ctx context.Context, req *executor.SendRequest) (*executor.SendResult, error)
}

// Reply is the result of SendMessage.
type Reply struct {
	ConversationID string `json:"conversation_id"`
	Response       string `json:"response"`
	Title          string `json:"title,omitempty"`
}

// ConversationView summarizes a conversation for listings.
type ConversationView struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// TranscriptMessage is one visible message of a conversation.
type TranscriptMessage struct {
	Role       string   `json:"role"`
	Content    string   `json:"content"`
	ToolName   string   `json:"tool_name,omitempty"`
	ToolCalls  []string `json:"tool_calls,omitempty"`
	CreatedAt  string   `json:"created_at"`
	ToolCallID string   `json:"tool_call_id,omitempty"`
}

// Transcript is a conversation with its messages.
type Transcript struct {
	Conversation ConversationView    `json:"conversation"`
	Messages     []TranscriptMessage `json:"messages"`
}

// Service implements Boundary over the executor and the store.
type Service struct {
	sender Sender
	store  Store
	logger *slog.Logger
	// sink is attached to every turn, if set
	sink executor.EventSink
}

// Config holds the dependencies of a Service.
type Config struct {
	Sender    Sender
	Store     Store
	Logger    *slog.Logger
	EventSink executor.EventSink
}

// NewService creates a chat service.
func NewService(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		sender: cfg.Sender,
		store:  cfg.Store,
		logger: cfg.Logger.With("component", "chat"),
		sink:   cfg.EventSink,
	}
}

// SendMessage sends text to conversationID, or to a new conversation when
// conversationID is empty.
func (s *Service) SendMessage(ctx context.Context, userID, text, conversationID string) (*Reply, error) {
	const op = "chat.SendMessage"
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation(op, "user id is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation(op, "message is required")
	}

	res, err := s.sender.Send(ctx, &executor.SendRequest{
		UserID:         userID,
		Message:        text,
		ConversationID: strings.TrimSpace(conversationID),
		EventSink:      s.sink,
	})
	if err != nil {
		s.logger.Debug("turn failed", "user_id", userID, "conversation_id", conversationID, "kind", apperr.KindOf(err).String(), "error", err)
		return nil, err
	}
	return &Reply{ConversationID: res.ConversationID, Response: res.Response, Title: res.Title}, nil
}

// ListConversations returns a page of the user's conversations.
func (s *Service) ListConversations(ctx context.Context, userID string, limit, offset int) ([]ConversationView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("chat.ListConversations", "user id is required")
	}
	convs, err := s.store.ListConversations(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return lo.Map(convs, func(c storage.ConversationSummary, _ int) ConversationView {
		return newConversationView(&c.Conversation, c.MessageCount)
	}), nil
}

// GetConversation returns a conversation and its full transcript.
func (s *Service) GetConversation(ctx context.Context, userID, conversationID string) (*Transcript, error) {
	conv, err := s.store.GetConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.LoadMessages(ctx, conv.ID, userID, 0)
	if err != nil {
		return nil, err
	}
	return &Transcript{
		Conversation: newConversationView(conv, len(msgs)),
		Messages: lo.Map(msgs, func(m storage.Message, _ int) TranscriptMessage {
			return newTranscriptMessage(&m)
		}),
	}, nil
}

// DeleteConversation removes a conversation owned by userID.
func (s *Service) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	if err := s.store.DeleteConversation(ctx, conversationID, userID); err != nil {
		return err
	}
	s.logger.Info("conversation deleted", "user_id", userID, "conversation_id", conversationID)
	return nil
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func newConversationView(c *storage.Conversation, count int) ConversationView {
	return ConversationView{
		ID:           c.ID,
		Title:        c.Title,
		MessageCount: count,
		CreatedAt:    c.CreatedAt.Format(timeLayout),
		UpdatedAt:    c.UpdatedAt.Format(timeLayout),
	}
}

func newTranscriptMessage(m *storage.Message) TranscriptMessage {
	out := TranscriptMessage{
		Role:       string(m.Role),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.Format(timeLayout),
		ToolCallID: m.ToolCallID,
	}
	if m.Role == storage.RoleTool {
		out.ToolName = m.Name
	}
	if len(m.ToolCalls) > 0 {
		out.ToolCalls = lo.Map(m.ToolCalls, func(tc storage.ToolCall, _ int) string {
			return tc.Function.Name
		})
	}
	return out
}

var _ Boundary = (*Service)(nil)
