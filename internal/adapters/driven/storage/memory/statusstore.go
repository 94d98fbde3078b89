package memory

import (
	"context"
	"sync"
	"time"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Ensure StatusStore implements the interface.
var _ driven.StatusStore = (*StatusStore)(nil)

// StatusStore is an in-memory implementation of driven.StatusStore.
// Every mutation is a compare-and-set under the lock, so two concurrent
// Begin calls for the same paper cannot both win.
type StatusStore struct {
	mu       sync.RWMutex
	statuses map[string]domain.ProcessingStatus
}

// NewStatusStore creates a new in-memory status store.
func NewStatusStore() *StatusStore {
	return &StatusStore{
		statuses: make(map[string]domain.ProcessingStatus),
	}
}

// Init creates the pending status record for a new paper.
func (s *StatusStore) Init(_ context.Context, paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.statuses[paperID]; ok {
		return domain.ErrAlreadyExists
	}
	s.statuses[paperID] = domain.ProcessingStatus{
		PaperID: paperID,
		State:   domain.StatePending,
	}
	return nil
}

// Get retrieves the status record for a paper.
func (s *StatusStore) Get(_ context.Context, paperID string) (*domain.ProcessingStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[paperID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &status, nil
}

// Begin transitions pending -> processing.
func (s *StatusStore) Begin(_ context.Context, paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[paperID]
	if !ok {
		return domain.ErrNotFound
	}
	if status.State == domain.StateProcessing {
		return domain.ErrIngestionInProgress
	}
	if !status.State.CanTransition(domain.StateProcessing) {
		return domain.ErrInvalidTransition
	}
	now := time.Now().UTC()
	status.State = domain.StateProcessing
	status.StartedAt = &now
	status.CompletedAt = nil
	status.ChunksCreated = 0
	status.Error = ""
	s.statuses[paperID] = status
	return nil
}

// Complete transitions processing -> completed.
func (s *StatusStore) Complete(_ context.Context, paperID string, chunksCreated int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[paperID]
	if !ok {
		return domain.ErrNotFound
	}
	if !status.State.CanTransition(domain.StateCompleted) {
		return domain.ErrInvalidTransition
	}
	now := time.Now().UTC()
	status.State = domain.StateCompleted
	status.CompletedAt = &now
	status.ChunksCreated = chunksCreated
	status.Error = ""
	s.statuses[paperID] = status
	return nil
}

// Fail transitions processing -> failed with a message.
func (s *StatusStore) Fail(_ context.Context, paperID string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[paperID]
	if !ok {
		return domain.ErrNotFound
	}
	if !status.State.CanTransition(domain.StateFailed) {
		return domain.ErrInvalidTransition
	}
	now := time.Now().UTC()
	status.State = domain.StateFailed
	status.CompletedAt = &now
	status.Error = message
	s.statuses[paperID] = status
	return nil
}

// Reset transitions a terminal state back to pending.
func (s *StatusStore) Reset(_ context.Context, paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[paperID]
	if !ok {
		return domain.ErrNotFound
	}
	if !status.State.CanTransition(domain.StatePending) {
		return domain.ErrInvalidTransition
	}
	s.statuses[paperID] = domain.ProcessingStatus{
		PaperID: paperID,
		State:   domain.StatePending,
	}
	return nil
}

// Delete removes the status record for a paper.
func (s *StatusStore) Delete(_ context.Context, paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, paperID)
	return nil
}
