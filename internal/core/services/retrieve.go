package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
	"github.com/quillhq/paperchat/internal/core/ports/driving"
	"github.com/quillhq/paperchat/internal/logger"
)

// Ensure RetrievalEngine implements the interface.
var _ driving.Retriever = (*RetrievalEngine)(nil)

// DefaultTopK is the number of chunks returned when the caller does
// not ask for a specific count.
const DefaultTopK = 5

// RetrievalEngine answers "which parts of this paper matter for this
// question" by embedding the question and ranking stored chunks.
type RetrievalEngine struct {
	embedder   driven.EmbeddingService
	chunkStore driven.ChunkStore
}

// NewRetrievalEngine creates a new retrieval engine.
func NewRetrievalEngine(embedder driven.EmbeddingService, chunkStore driven.ChunkStore) *RetrievalEngine {
	return &RetrievalEngine{
		embedder:   embedder,
		chunkStore: chunkStore,
	}
}

// Retrieve embeds the question and returns the nearest chunks ranked
// descending by similarity.
func (e *RetrievalEngine) Retrieve(ctx context.Context, paperID, question string, opts domain.RetrieveOptions) ([]domain.ScoredChunk, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	// A paper without chunks has nothing to say yet. Checking before
	// embedding skips a pointless API call.
	count, err := e.chunkStore.CountFor(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	queryVec, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	// Fetch through the offset so pagination slices a consistent ranking.
	ranked, err := e.chunkStore.NearestTo(ctx, paperID, queryVec, opts.Offset+opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("rank chunks: %w", err)
	}

	if opts.Offset >= len(ranked) {
		return nil, nil
	}
	ranked = ranked[opts.Offset:]

	logger.Debug("Retrieved %d chunks for paper %s", len(ranked), paperID)
	return ranked, nil
}
