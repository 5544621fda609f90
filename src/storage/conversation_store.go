package storage

import "context"

// CreateConversation inserts an empty conversation owned by userID.
func (d *DB) CreateConversation(ctx context.Context, userID string) (*Conversation, error) {
	return CreateConversation(ctx, d.db, userID)
}

// GetConversation returns a conversation owned by userID.
func (d *DB) GetConversation(ctx context.Context, conversationID, userID string) (*Conversation, error) {
	return GetConversation(ctx, d.db, conversationID, userID)
}

// ListConversations returns a page of the user's conversations, most recently
// updated first.
func (d *DB) ListConversations(ctx context.Context, userID string, limit, offset int) ([]ConversationSummary, error) {
	return ListConversations(ctx, d.db, userID, limit, offset)
}

// LoadMessages returns the newest maxCount messages of a conversation in
// chronological order. maxCount <= 0 loads everything.
func (d *DB) LoadMessages(ctx context.Context, conversationID, userID string, maxCount int) ([]Message, error) {
	return LoadMessages(ctx, d.db, conversationID, userID, maxCount)
}
