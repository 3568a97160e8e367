package repository

import (
	"sync"

	"github.com/rishav-sunny/voice-summarizer/domain/entities"
)

// InMemoryTranscriptStore is a process-wide transcript store. Sessions live
// for the lifetime of the process and are never deleted; multiple relay
// sessions sharing an identifier append to the same sequence.
type InMemoryTranscriptStore struct {
	mu       sync.RWMutex
	sessions map[string][]entities.TranscriptMessage
}

// NewInMemoryTranscriptStore creates an empty transcript store.
func NewInMemoryTranscriptStore() *InMemoryTranscriptStore {
	return &InMemoryTranscriptStore{
		sessions: make(map[string][]entities.TranscriptMessage),
	}
}

// Register creates the session entry if it does not exist yet.
func (s *InMemoryTranscriptStore) Register(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = make([]entities.TranscriptMessage, 0)
	}
}

// Append adds a message to the session's sequence, creating the session if
// needed. Messages are kept in arrival order.
func (s *InMemoryTranscriptStore) Append(sessionID string, message entities.TranscriptMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.sessions[sessionID], message)
}

// ReadAll returns a snapshot of the session's messages in append order. An
// unknown session yields an empty slice.
func (s *InMemoryTranscriptStore) ReadAll(sessionID string) []entities.TranscriptMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := s.sessions[sessionID]
	snapshot := make([]entities.TranscriptMessage, len(messages))
	copy(snapshot, messages)
	return snapshot
}
