package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Snapshots are copied on the way in and on the way out.
type SessionStore struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.SessionSnapshot
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		snapshots: make(map[string]*domain.SessionSnapshot),
	}
}

// SaveSnapshot stores or replaces a snapshot.
func (s *SessionStore) SaveSnapshot(_ context.Context, snap *domain.SessionSnapshot) error {
	if snap == nil || snap.DocumentID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.DocumentID] = cloneSnapshot(snap)
	return nil
}

// LoadSnapshot retrieves a snapshot by document ID.
func (s *SessionStore) LoadSnapshot(_ context.Context, documentID string) (*domain.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSnapshot(snap), nil
}

// DeleteSnapshot removes a snapshot.
func (s *SessionStore) DeleteSnapshot(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, documentID)
	return nil
}

func cloneSnapshot(snap *domain.SessionSnapshot) *domain.SessionSnapshot {
	out := *snap
	out.Edited = snap.Edited.Clone()
	out.Corrections = snap.Corrections.Clone()
	return &out
}
