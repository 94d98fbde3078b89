package driven

import (
	"context"

	"github.com/quillhq/paperchat/internal/core/domain"
)

// ChunkStore persists chunks and supports similarity search over them.
//
// Note: this is separate from EmbeddingService, which generates vectors.
// ChunkStore stores them and ranks by similarity at query time.
type ChunkStore interface {
	// InsertMany stores all chunks for one paper in a single
	// all-or-nothing batch. A failed call leaves no partial writes.
	InsertMany(ctx context.Context, paperID string, chunks []domain.Chunk) error

	// NearestTo returns the k chunks of the given paper most similar to
	// the query vector, sorted by descending score. Ties are broken by
	// lower chunk index. Chunks of other papers are never returned.
	NearestTo(ctx context.Context, paperID string, query []float32, k int) ([]domain.ScoredChunk, error)

	// CountFor returns the number of stored chunks for a paper.
	CountFor(ctx context.Context, paperID string) (int, error)

	// DeleteFor removes all chunks for a paper. Used on re-ingestion.
	DeleteFor(ctx context.Context, paperID string) error
}
