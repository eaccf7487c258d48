package state

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps contexts in-process. It is the default for the CLI, where
// sessions do not survive a restart. Safe for concurrent sessions; turns
// within one session are sequential by construction.
type MemoryStore struct {
	mu       sync.RWMutex
	contexts map[string]*ConversationContext
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contexts: make(map[string]*ConversationContext),
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*ConversationContext, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cc, ok := s.contexts[sessionID]
	if !ok {
		return nil, ErrContextNotFound
	}
	return cc.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, cc *ConversationContext) error {
	if cc == nil {
		return ErrNilContext
	}
	if strings.TrimSpace(cc.SessionID) == "" {
		return ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contexts[cc.SessionID] = cc.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, sessionID)
	return nil
}
