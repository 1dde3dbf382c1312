package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ishika2236/ConstructionChatbot/internal/core/domain"
)

// ConversationStore keeps conversations in process memory. History is
// intentionally ephemeral: restarting the process starts fresh.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
}

// NewConversationStore creates an empty store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*domain.Conversation),
	}
}

// GetOrCreate returns the conversation with the given ID, creating a new
// one when the ID is empty or unknown.
func (s *ConversationStore) GetOrCreate(id string) *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if c, ok := s.conversations[id]; ok {
			return c
		}
	}

	c := &domain.Conversation{ID: uuid.New().String()}
	s.conversations[c.ID] = c
	return c
}

// Get returns a conversation by ID.
func (s *ConversationStore) Get(id string) (*domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	return c, ok
}

// Append adds a turn to a conversation.
func (s *ConversationStore) Append(id, role, content string, sources []domain.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.conversations[id]
	if !ok {
		return
	}
	c.Turns = append(c.Turns, domain.Turn{
		Role:    role,
		Content: content,
		Sources: sources,
		At:      time.Now(),
	})
}

// Len returns the number of stored conversations.
func (s *ConversationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}
