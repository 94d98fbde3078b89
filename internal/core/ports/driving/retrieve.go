package driving

import (
	"context"

	"github.com/quillhq/paperchat/internal/core/domain"
)

// Retriever finds the chunks of a paper most relevant to a question.
type Retriever interface {
	// Retrieve embeds the question and returns the nearest chunks with
	// their scores, ranked descending. A paper with no chunks yet (still
	// processing, or URL-sourced and never fetched) yields an empty
	// result, not an error.
	Retrieve(ctx context.Context, paperID, question string, opts domain.RetrieveOptions) ([]domain.ScoredChunk, error)
}
