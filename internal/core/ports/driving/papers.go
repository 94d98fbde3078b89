package driving

import (
	"context"

	"github.com/quillhq/paperchat/internal/core/domain"
)

// PaperService manages papers and their processing lifecycle.
// Every operation verifies the caller owns the paper before touching it;
// papers owned by someone else surface as domain.ErrNotFound.
type PaperService interface {
	// Upload registers a new paper from raw bytes. The bytes are stored,
	// the paper is created and its status record starts at pending.
	// Processing does not start until Process is called.
	Upload(ctx context.Context, ownerID, title string, data []byte) (*domain.Paper, error)

	// AddByURL registers a paper by URL. Fetching is handled by an
	// external collaborator, so the paper stays pending with no bytes.
	AddByURL(ctx context.Context, ownerID, title, url string) (*domain.Paper, error)

	// Process runs ingestion for a pending paper to completion within
	// the calling request: extract text, split, embed, store. The result
	// is observable through Status. A paper already processing is
	// rejected with domain.ErrIngestionInProgress.
	Process(ctx context.Context, ownerID, paperID string) error

	// Reprocess explicitly resets a completed or failed paper to
	// pending and runs ingestion again.
	Reprocess(ctx context.Context, ownerID, paperID string) error

	// Get retrieves an owned paper.
	Get(ctx context.Context, ownerID, paperID string) (*domain.Paper, error)

	// List returns all papers owned by the caller.
	List(ctx context.Context, ownerID string) ([]domain.Paper, error)

	// Status returns the processing status record for polling.
	Status(ctx context.Context, ownerID, paperID string) (*domain.ProcessingStatus, error)

	// Delete removes a paper, cascading to chunks, status, sessions,
	// messages and citations, and the stored bytes.
	Delete(ctx context.Context, ownerID, paperID string) error
}
