package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/elee1766/taskchat/src/apperr"
)

const (
	DefaultConversationListLimit = 20
	MaxConversationListLimit     = 100
)

const conversationNotFound = "conversation not found"

// CreateConversation creates an empty conversation owned by userID.
func CreateConversation(ctx context.Context, db Execer, userID string) (*Conversation, error) {
	conv, err := NewConversation(userID)
	if err != nil {
		return nil, err
	}
	if err := insertConversation(ctx, db, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// NewConversation builds an unsaved conversation with a fresh id.
func NewConversation(userID string) (*Conversation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("storage.CreateConversation", "user id is required")
	}
	ts := now()
	return &Conversation{
		ID:        GenerateID(),
		UserID:    userID,
		Title:     DefaultTitle,
		CreatedAt: ts,
		UpdatedAt: ts,
	}, nil
}

func insertConversation(ctx context.Context, db Execer, conv *Conversation) error {
	query := `INSERT INTO conversations (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, conv.ID, conv.UserID, conv.Title, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return apperr.Internal("storage.CreateConversation", err)
	}
	return nil
}

// GetConversation loads a conversation and checks that userID owns it.
// A missing conversation is NotFound, a foreign one is Ownership; both carry
// the same message.
func GetConversation(ctx context.Context, db sqlscan.Querier, conversationID, userID string) (*Conversation, error) {
	const op = "storage.GetConversation"
	query := `SELECT id, user_id, title, created_at, updated_at FROM conversations WHERE id = ?`
	var conv Conversation
	err := sqlscan.Get(ctx, db, &conv, query, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound(op, conversationNotFound)
		}
		return nil, apperr.Internal(op, err)
	}
	if conv.UserID != userID {
		return nil, apperr.Ownership(op, conversationNotFound)
	}
	return &conv, nil
}

// ListConversations returns the user's conversations, most recently updated
// first, with their message counts.
func ListConversations(ctx context.Context, db sqlscan.Querier, userID string, limit, offset int) ([]ConversationSummary, error) {
	if limit <= 0 {
		limit = DefaultConversationListLimit
	}
	limit = clamp(limit, 1, MaxConversationListLimit)
	if offset < 0 {
		offset = 0
	}

	query := `SELECT c.id, c.user_id, c.title, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id) AS message_count
		FROM conversations c
		WHERE c.user_id = ?
		ORDER BY c.updated_at DESC, c.id
		LIMIT ? OFFSET ?`
	var out []ConversationSummary
	if err := sqlscan.Select(ctx, db, &out, query, userID, limit, offset); err != nil {
		return nil, apperr.Internal("storage.ListConversations", err)
	}
	if out == nil {
		out = []ConversationSummary{}
	}
	return out, nil
}

// DeleteConversation removes a conversation and all of its messages.
func (d *DB) DeleteConversation(ctx context.Context, conversationID, userID string) error {
	return d.WithTx(ctx, func(tx *sql.Tx) error {
		return DeleteConversation(ctx, tx, conversationID, userID)
	})
}

// DeleteConversation removes a conversation and its messages using db, which
// should be a transaction.
func DeleteConversation(ctx context.Context, db ExecQuerier, conversationID, userID string) error {
	const op = "storage.DeleteConversation"
	if _, err := GetConversation(ctx, db, conversationID, userID); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return apperr.Internal(op, err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, conversationID); err != nil {
		return apperr.Internal(op, err)
	}
	return nil
}
