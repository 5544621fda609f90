package storage

import (
	"context"
	"database/sql"

	"github.com/elee1766/taskchat/src/apperr"
)

// Turn is everything one exchange adds to a conversation.
type Turn struct {
	// Conversation is the target. When NewConversation is set it is inserted
	// first, otherwise its ownership is verified and its fields refreshed.
	Conversation    *Conversation
	UserID          string
	NewConversation bool
	Messages        []*Message
	TitleLength     int
}

// SaveTurn persists a turn in a single transaction: either every message is
// appended (and a new conversation created) or nothing is.
func (d *DB) SaveTurn(ctx context.Context, turn *Turn) error {
	if turn == nil || turn.Conversation == nil {
		return apperr.Validation("storage.SaveTurn", "turn has no conversation")
	}
	return d.WithTx(ctx, func(tx *sql.Tx) error {
		conv := turn.Conversation
		if turn.NewConversation {
			if conv.UserID != turn.UserID {
				return apperr.Validation("storage.SaveTurn", "conversation owner does not match turn user")
			}
			if err := insertConversation(ctx, tx, conv); err != nil {
				return err
			}
		} else {
			current, err := GetConversation(ctx, tx, conv.ID, turn.UserID)
			if err != nil {
				return err
			}
			*conv = *current
		}
		return appendMessages(ctx, tx, conv, turn.Messages, turn.TitleLength)
	})
}
