package repository

import (
	"context"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
)

// ConversationRepository keys per-chat state by the opaque conversation id
// supplied by the transport. Implementations must serialize Update calls for
// the same id; different ids may proceed in parallel.
type ConversationRepository interface {
	// Get returns the state for a chat, creating it on first touch.
	Get(ctx context.Context, chatID int64) (entity.Conversation, error)

	// Update applies fn to the chat's state under the per-chat lock.
	Update(ctx context.Context, chatID int64, fn func(*entity.Conversation)) error
}
