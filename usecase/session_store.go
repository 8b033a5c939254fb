package usecase

import (
	"sync"

	"github.com/google/uuid"

	"github.com/satriahrh/nova-ai/domain"
)

// SessionStore maps session identifiers to conversations held in memory.
// Nothing is ever written to disk.
type SessionStore struct {
	llm domain.Llm

	mu       sync.Mutex
	sessions map[string]*Conversation
}

func NewSessionStore(llm domain.Llm) *SessionStore {
	return &SessionStore{
		llm:      llm,
		sessions: make(map[string]*Conversation),
	}
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// GetOrCreate returns the conversation for id, creating an empty one the
// first time id is seen.
func (s *SessionStore) GetOrCreate(id string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.sessions[id]; ok {
		return c
	}
	c := newConversation(id, s.llm)
	s.sessions[id] = c
	return c
}

func (s *SessionStore) Get(id string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.sessions[id]
	return c, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
