package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elee1766/taskchat/src/aisdk"
	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/history"
	"github.com/elee1766/taskchat/src/storage"
)

// SendRequest is one user message addressed to a conversation.
type SendRequest struct {
	UserID  string
	Message string
	// ConversationID is empty to start a new conversation.
	ConversationID string
	// EventSink optionally receives progress events for the turn.
	EventSink EventSink
}

// SendResult is the outcome of a completed turn.
type SendResult struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
	Response       string `json:"response"`
	ToolCalls      int    `json:"tool_calls"`
	Degraded       bool   `json:"degraded,omitempty"`
}

// Send runs one turn. The user message, every assistant tool request, every
// tool result and the final reply are persisted together once the turn
// completes. If any model call fails nothing is persisted.
func (s *Service) Send(ctx context.Context, req *SendRequest) (*SendResult, error) {
	const op = "executor.Send"
	if req == nil || strings.TrimSpace(req.UserID) == "" {
		return nil, apperr.Validation(op, "user id is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, apperr.Validation(op, "message is required")
	}

	conv, prior, isNew, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	emitter := NewEventEmitter(req.EventSink, conv.ID)
	logger := s.logger.With("conversation_id", conv.ID, "user_id", req.UserID)

	messages := make([]*aisdk.Message, 0, len(prior)+2)
	if s.systemPrompt != "" && (len(prior) == 0 || s.alwaysSystemPrompt) {
		messages = append(messages, &aisdk.Message{Role: aisdk.RoleSystem, Content: s.systemPrompt})
	}
	messages = append(messages, prior...)

	userMsg := &aisdk.Message{Role: aisdk.RoleUser, Content: req.Message}
	messages = append(messages, userMsg)
	turn := []*aisdk.Message{userMsg}
	emitter.EmitUserMessage(req.Message)

	result := &SendResult{ConversationID: conv.ID}
	var final *aisdk.Message
	for round := 0; ; round++ {
		reply, err := s.complete(ctx, messages)
		if err != nil {
			logger.Warn("model call failed", "round", round, "error", err)
			emitter.EmitError(err, "model")
			return nil, err
		}
		emitter.EmitAssistantMessage(reply.Content, reply.ToolCalls, s.model.ModelName())

		if !reply.HasToolCalls() {
			final = reply
			break
		}
		if round >= s.maxToolRounds {
			logger.Warn("tool round limit reached", "rounds", round, "pending_calls", len(reply.ToolCalls))
			emitter.EmitSystemMessage("tool round limit reached", PurposeWarning)
			final = &aisdk.Message{Role: aisdk.RoleAssistant, Content: DegradedResponse}
			result.Degraded = true
			break
		}

		messages = append(messages, reply)
		turn = append(turn, reply)
		results := s.executeTools(ctx, req.UserID, reply.ToolCalls, emitter)
		messages = append(messages, results...)
		turn = append(turn, results...)
		result.ToolCalls += len(results)
	}
	turn = append(turn, final)

	err = s.store.SaveTurn(ctx, &storage.Turn{
		Conversation:    conv,
		UserID:          req.UserID,
		NewConversation: isNew,
		Messages:        history.RecordAll(turn),
		TitleLength:     s.titleLength,
	})
	if err != nil {
		logger.Error("failed to persist turn", "error", err)
		emitter.EmitError(err, "persist")
		return nil, err
	}

	result.Title = conv.Title
	result.Response = final.Content
	emitter.EmitTurnComplete(result.ToolCalls, result.Degraded)
	logger.Debug("turn complete", "tool_calls", result.ToolCalls, "degraded", result.Degraded, "new_conversation", isNew)
	return result, nil
}

// resolve finds the target conversation and its replayable history. A new
// conversation is only built in memory; it is inserted with the turn.
func (s *Service) resolve(ctx context.Context, req *SendRequest) (*storage.Conversation, []*aisdk.Message, bool, error) {
	if req.ConversationID == "" {
		conv, err := storage.NewConversation(req.UserID)
		if err != nil {
			return nil, nil, false, err
		}
		return conv, nil, true, nil
	}

	conv, err := s.store.GetConversation(ctx, req.ConversationID, req.UserID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindOwnership {
			s.logger.Info("conversation access denied", "conversation_id", req.ConversationID, "user_id", req.UserID)
		}
		return nil, nil, false, err
	}
	stored, err := s.store.LoadMessages(ctx, conv.ID, req.UserID, s.historyLimit)
	if err != nil {
		return nil, nil, false, err
	}
	return conv, history.Reconstruct(stored), false, nil
}

// complete performs one bounded model call and returns the assistant message.
func (s *Service) complete(ctx context.Context, messages []*aisdk.Message) (*aisdk.Message, error) {
	const op = "executor.complete"
	ctx, cancel := context.WithTimeout(ctx, s.modelTimeout)
	defer cancel()

	req := &aisdk.ChatCompletionRequest{
		Model:       s.model.ModelName(),
		Messages:    messages,
		Tools:       s.toolbox.ChatTools(),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}
	if len(req.Tools) > 0 {
		req.ToolChoice = aisdk.ToolChoiceAuto
	}

	resp, err := s.model.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, apperr.Upstream(op, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, apperr.Upstream(op, errors.New("response contained no choices"))
	}

	msg := resp.Choices[0].Message
	msg.Role = aisdk.RoleAssistant
	msg.Name = ""
	msg.ToolCallID = ""
	for i := range msg.ToolCalls {
		tc := &msg.ToolCalls[i]
		if tc.Function.Name == "" {
			return nil, apperr.Upstream(op, fmt.Errorf("tool call %d has no function name", i))
		}
		if tc.ID == "" {
			tc.ID = "call_" + uuid.NewString()
		}
		if tc.Type == "" {
			tc.Type = "function"
		}
	}
	if !msg.HasToolCalls() && strings.TrimSpace(msg.Content) == "" {
		return nil, apperr.Upstream(op, errors.New("response contained neither text nor tool calls"))
	}
	return &msg, nil
}

// executeTools runs each call in order for userID. Every call yields exactly
// one tool message; failures are reported to the model, never to the caller.
func (s *Service) executeTools(ctx context.Context, userID string, calls []aisdk.ToolCall, emitter *EventEmitter) []*aisdk.Message {
	results := make([]*aisdk.Message, 0, len(calls))
	for i := range calls {
		call := calls[i]
		emitter.EmitToolCallRequest(call)

		start := time.Now()
		resp, err := s.toolbox.ExecuteTool(ctx, userID, &call)
		duration := time.Since(start)

		var content string
		switch {
		case err != nil:
			pub := apperr.Public(err)
			s.logger.Warn("tool call rejected", "tool", call.Function.Name, "call_id", call.ID, "error", err)
			content = string(aisdk.NewErrorToolResponse(pub.Code, pub.Message).Content)
			emitter.EmitToolCallError(call.Function.Name, call.ID, err, duration)
		case resp == nil:
			content = string(aisdk.NewErrorToolResponse(apperr.KindToolExecution.String(), "tool returned no result").Content)
			emitter.EmitToolCallError(call.Function.Name, call.ID, errors.New("tool returned no result"), duration)
		default:
			content = string(resp.Content)
			if resp.IsError {
				emitter.EmitToolCallError(call.Function.Name, call.ID, errors.New(content), duration)
			} else {
				emitter.EmitToolCallResponse(call.Function.Name, call.ID, resp, duration)
			}
		}

		results = append(results, &aisdk.Message{
			Role:       aisdk.RoleTool,
			Content:    content,
			Name:       call.Function.Name,
			ToolCallID: call.ID,
		})
	}
	return results
}
