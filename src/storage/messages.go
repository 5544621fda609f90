package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/elee1766/taskchat/src/apperr"
)

const messageColumns = `id, conversation_id, seq, role, content, tool_calls, tool_call_id, name, created_at`

// LoadMessages returns the conversation's messages in chronological order.
// When maxCount > 0 only the most recent maxCount messages are returned.
func LoadMessages(ctx context.Context, db sqlscan.Querier, conversationID, userID string, maxCount int) ([]Message, error) {
	const op = "storage.LoadMessages"
	if _, err := GetConversation(ctx, db, conversationID, userID); err != nil {
		return nil, err
	}

	var (
		query string
		args  []any
	)
	if maxCount > 0 {
		query = `SELECT ` + messageColumns + ` FROM (
			SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = ? ORDER BY seq DESC LIMIT ?
		) ORDER BY seq`
		args = []any{conversationID, maxCount}
	} else {
		query = `SELECT ` + messageColumns + ` FROM messages WHERE conversation_id = ? ORDER BY seq`
		args = []any{conversationID}
	}

	var messages []Message
	if err := sqlscan.Select(ctx, db, &messages, query, args...); err != nil {
		return nil, apperr.Internal(op, err)
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// AppendMessage validates and appends a single message to a conversation the
// user owns.
func (d *DB) AppendMessage(ctx context.Context, conversationID, userID string, msg *Message) error {
	return d.WithTx(ctx, func(tx *sql.Tx) error {
		conv, err := GetConversation(ctx, tx, conversationID, userID)
		if err != nil {
			return err
		}
		return appendMessages(ctx, tx, conv, []*Message{msg}, DefaultTitleLength)
	})
}

type lastMessage struct {
	Seq       int64     `db:"seq"`
	CreatedAt time.Time `db:"created_at"`
}

// appendMessages writes msgs contiguously after the conversation's last
// message, then bumps updated_at and sets the title when the conversation was
// empty. db must be a transaction.
func appendMessages(ctx context.Context, db ExecQuerier, conv *Conversation, msgs []*Message, titleLength int) error {
	const op = "storage.AppendMessage"
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	if len(msgs) == 0 {
		return nil
	}

	var last lastMessage
	err := sqlscan.Get(ctx, db, &last,
		`SELECT seq, created_at FROM messages WHERE conversation_id = ? ORDER BY seq DESC LIMIT 1`, conv.ID)
	wasEmpty := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return apperr.Internal(op, err)
		}
		wasEmpty = true
	}

	prev := last.CreatedAt
	if prev.Before(conv.CreatedAt) {
		prev = conv.CreatedAt
	}
	seq := last.Seq
	query := `INSERT INTO messages (` + messageColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, m := range msgs {
		seq++
		m.ID = GenerateID()
		m.ConversationID = conv.ID
		m.Seq = seq
		m.CreatedAt = nextTimestamp(prev)
		prev = m.CreatedAt
		_, err := db.ExecContext(ctx, query,
			m.ID, m.ConversationID, m.Seq, m.Role, m.Content, m.ToolCalls, m.ToolCallID, m.Name, m.CreatedAt)
		if err != nil {
			return apperr.Internal(op, err)
		}
	}

	title := conv.Title
	if wasEmpty && title == DefaultTitle {
		for _, m := range msgs {
			if m.Role == RoleUser {
				title = TitleFromMessage(m.Content, titleLength)
				break
			}
		}
	}
	if _, err := db.ExecContext(ctx, `UPDATE conversations SET title = ?, updated_at = ? WHERE id = ?`, title, prev, conv.ID); err != nil {
		return apperr.Internal(op, err)
	}
	conv.Title = title
	conv.UpdatedAt = prev
	return nil
}
