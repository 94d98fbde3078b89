package driven

import (
	"context"

	"github.com/quillhq/paperchat/internal/core/domain"
)

// PaperStore persists papers.
type PaperStore interface {
	// Save stores or updates a paper.
	Save(ctx context.Context, paper *domain.Paper) error

	// Get retrieves a paper by ID.
	Get(ctx context.Context, id string) (*domain.Paper, error)

	// ListByOwner returns all papers owned by a user.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Paper, error)

	// Delete removes a paper. The deletion cascades to the paper's
	// chunks, processing status, sessions, messages and citations.
	Delete(ctx context.Context, id string) error
}
