package storage

import (
	"time"

	"github.com/elee1766/taskchat/src/apperr"
)

// DefaultTitle is the title of a conversation before its first user message.
const DefaultTitle = "New Conversation"

// Role identifies the author of a stored message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return true
	}
	return false
}

// Conversation represents a conversation owned by a single user.
type Conversation struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ConversationSummary is a conversation listing entry.
type ConversationSummary struct {
	Conversation
	MessageCount int `json:"message_count" db:"message_count"`
}

// Message represents a single persisted message within a conversation.
type Message struct {
	ID             string       `json:"id" db:"id"`
	ConversationID string       `json:"conversation_id" db:"conversation_id"`
	Seq            int64        `json:"seq" db:"seq"`
	Role           Role         `json:"role" db:"role"`
	Content        string       `json:"content" db:"content"`
	ToolCalls      ToolCallList `json:"tool_calls,omitempty" db:"tool_calls"`
	ToolCallID     string       `json:"tool_call_id,omitempty" db:"tool_call_id"`
	Name           string       `json:"name,omitempty" db:"name"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
}

// Validate checks the role dependent field invariants of a message.
func (m *Message) Validate() error {
	const op = "storage.Message.Validate"
	if !m.Role.Valid() {
		return apperr.Validationf(op, "invalid role %q", m.Role)
	}
	if len(m.ToolCalls) > 0 && m.Role != RoleAssistant {
		return apperr.Validationf(op, "tool calls are only allowed on assistant messages, got %s", m.Role)
	}
	if m.Role == RoleTool {
		if m.ToolCallID == "" {
			return apperr.Validation(op, "tool message requires a tool_call_id")
		}
		if m.Name == "" {
			return apperr.Validation(op, "tool message requires a tool name")
		}
	} else if m.ToolCallID != "" {
		return apperr.Validationf(op, "tool_call_id is only allowed on tool messages, got %s", m.Role)
	}
	for i, tc := range m.ToolCalls {
		if tc.ID == "" || tc.Function.Name == "" {
			return apperr.Validationf(op, "tool call %d is missing an id or function name", i)
		}
	}
	return nil
}

// ToolCall is a model issued request to invoke a named tool. Arguments is
// kept exactly as the model serialized it.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the tool and carries its serialized arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// TaskStatus is the completion state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task is a user scoped todo item managed by the assistant's tools.
type Task struct {
	ID          int64      `json:"id" db:"id"`
	UserID      string     `json:"-" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Priority    Priority   `json:"priority" db:"priority"`
	Status      TaskStatus `json:"status" db:"status"`
	DueDate     *string    `json:"due_date,omitempty" db:"due_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// TaskFilter narrows ListTasks. Zero values mean no filter.
type TaskFilter struct {
	Status   TaskStatus
	Priority Priority
	Limit    int
}

// TaskPatch lists the fields to change in UpdateTask. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *TaskStatus
	DueDate     *string
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.Status == nil && p.DueDate == nil
}
