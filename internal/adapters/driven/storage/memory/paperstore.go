// Package memory provides in-memory store implementations.
// They are used by tests and as dependency-injection substitutes when
// no database is configured.
package memory

import (
	"context"
	"sync"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Ensure PaperStore implements the interface.
var _ driven.PaperStore = (*PaperStore)(nil)

// PaperStore is an in-memory implementation of driven.PaperStore.
type PaperStore struct {
	mu     sync.RWMutex
	papers map[string]domain.Paper
}

// NewPaperStore creates a new in-memory paper store.
func NewPaperStore() *PaperStore {
	return &PaperStore{
		papers: make(map[string]domain.Paper),
	}
}

// Save stores or updates a paper.
func (s *PaperStore) Save(_ context.Context, paper *domain.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.papers[paper.ID] = *paper
	return nil
}

// Get retrieves a paper by ID.
func (s *PaperStore) Get(_ context.Context, id string) (*domain.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paper, ok := s.papers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &paper, nil
}

// ListByOwner returns all papers owned by a user.
func (s *PaperStore) ListByOwner(_ context.Context, ownerID string) ([]domain.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Paper
	for id := range s.papers {
		paper := s.papers[id]
		if paper.OwnerID == ownerID {
			result = append(result, paper)
		}
	}
	return result, nil
}

// Delete removes a paper.
func (s *PaperStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.papers, id)
	return nil
}
