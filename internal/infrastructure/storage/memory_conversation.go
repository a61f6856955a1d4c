package storage

import (
	"context"
	"sync"

	"github.com/greenwayvn/advisor-bot/internal/domain/entity"
	"github.com/greenwayvn/advisor-bot/internal/domain/repository"
)

type conversationEntry struct {
	mu   sync.Mutex
	conv entity.Conversation
}

type memoryConversationRepository struct {
	mu      sync.RWMutex
	entries map[int64]*conversationEntry
}

// NewMemoryConversationRepository creates the in-memory per-chat state store.
// Mutations for one chat are serialized on that chat's own lock; different
// chats never contend with each other beyond the map lookup.
func NewMemoryConversationRepository() repository.ConversationRepository {
	return &memoryConversationRepository{
		entries: make(map[int64]*conversationEntry),
	}
}

func (m *memoryConversationRepository) entry(chatID int64) *conversationEntry {
	m.mu.RLock()
	e, ok := m.entries[chatID]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok = m.entries[chatID]; ok {
		return e
	}
	e = &conversationEntry{conv: entity.Conversation{ChatID: chatID}}
	m.entries[chatID] = e
	return e
}

// Get returns a copy of the chat's state, creating it on first touch.
func (m *memoryConversationRepository) Get(_ context.Context, chatID int64) (entity.Conversation, error) {
	e := m.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()

	conv := e.conv
	if e.conv.LastMatch != nil {
		ref := *e.conv.LastMatch
		conv.LastMatch = &ref
	}
	return conv, nil
}

// Update applies fn under the per-chat lock.
func (m *memoryConversationRepository) Update(_ context.Context, chatID int64, fn func(*entity.Conversation)) error {
	e := m.entry(chatID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.conv)
	e.conv.ChatID = chatID
	return nil
}
