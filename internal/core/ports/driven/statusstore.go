package driven

import (
	"context"

	"github.com/quillhq/paperchat/internal/core/domain"
)

// StatusStore tracks the processing state machine for each paper.
// There is exactly one status record per paper, and every mutation is a
// compare-and-set on the current state: illegal transitions return
// domain.ErrInvalidTransition, and Begin on an already-processing paper
// returns domain.ErrIngestionInProgress so concurrent ingestion attempts
// lose cleanly instead of racing.
type StatusStore interface {
	// Init creates the pending status record for a new paper.
	// Returns domain.ErrAlreadyExists if a record is already present.
	Init(ctx context.Context, paperID string) error

	// Get retrieves the status record for a paper.
	// Readers may observe mid-transition values; the record is the
	// single source of truth for polling.
	Get(ctx context.Context, paperID string) (*domain.ProcessingStatus, error)

	// Begin transitions pending -> processing and records the start time.
	Begin(ctx context.Context, paperID string) error

	// Complete transitions processing -> completed, recording the
	// completion time and the final chunk count.
	Complete(ctx context.Context, paperID string, chunksCreated int) error

	// Fail transitions processing -> failed with a human-readable
	// message. The completion time is recorded so duration stays
	// computable.
	Fail(ctx context.Context, paperID string, message string) error

	// Reset transitions a terminal state back to pending for explicit
	// re-ingestion, clearing timestamps, count and error.
	Reset(ctx context.Context, paperID string) error

	// Delete removes the status record for a paper.
	Delete(ctx context.Context, paperID string) error
}
