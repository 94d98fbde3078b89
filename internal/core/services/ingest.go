package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
	"github.com/quillhq/paperchat/internal/core/ports/driving"
	"github.com/quillhq/paperchat/internal/logger"
	"github.com/quillhq/paperchat/internal/splitter"
)

// Ensure IngestionPipeline implements the interface.
var _ driving.Ingestor = (*IngestionPipeline)(nil)

// Embedding retry policy for transient failures.
const (
	maxEmbedAttempts = 3
	embedRetryDelay  = 2 * time.Second
)

// IngestionPipeline turns paper text into embedded, stored chunks.
// One run drives the paper's status from pending through processing to
// a terminal state; a paper is never left processing after Ingest
// returns.
type IngestionPipeline struct {
	split       *splitter.Splitter
	embedder    driven.EmbeddingService
	chunkStore  driven.ChunkStore
	statusStore driven.StatusStore

	// retryDelay is overridable in tests.
	retryDelay time.Duration
}

// NewIngestionPipeline creates a new ingestion pipeline.
func NewIngestionPipeline(
	split *splitter.Splitter,
	embedder driven.EmbeddingService,
	chunkStore driven.ChunkStore,
	statusStore driven.StatusStore,
) *IngestionPipeline {
	return &IngestionPipeline{
		split:       split,
		embedder:    embedder,
		chunkStore:  chunkStore,
		statusStore: statusStore,
		retryDelay:  embedRetryDelay,
	}
}

// Ingest processes one paper's text to completion or failure.
func (p *IngestionPipeline) Ingest(ctx context.Context, paperID, text string, pageCount int) (*driving.IngestResult, error) {
	// Claim the paper. A concurrent run loses here, before any work.
	if err := p.statusStore.Begin(ctx, paperID); err != nil {
		return nil, fmt.Errorf("begin processing: %w", err)
	}
	logger.Stage("Ingesting paper " + paperID)

	result, err := p.run(ctx, paperID, text, pageCount)
	if err != nil {
		logger.Warn("Ingestion failed for paper %s: %v", paperID, err)
		// The run may have failed because ctx itself was canceled; the
		// failure must still be recorded or the paper stays processing
		// forever.
		if failErr := p.statusStore.Fail(context.WithoutCancel(ctx), paperID, err.Error()); failErr != nil {
			logger.Warn("Recording ingestion failure for paper %s: %v", paperID, failErr)
		}
		return nil, err
	}

	if err := p.statusStore.Complete(ctx, paperID, result.ChunksCreated); err != nil {
		return nil, fmt.Errorf("complete processing: %w", err)
	}

	logger.Info("Ingested paper %s: %d chunks", paperID, result.ChunksCreated)
	return result, nil
}

// run does the splitting, embedding and storing. The caller owns the
// status transitions.
func (p *IngestionPipeline) run(ctx context.Context, paperID, text string, pageCount int) (*driving.IngestResult, error) {
	candidates := p.split.Split(text, pageCount)
	if len(candidates) == 0 {
		// Nothing to embed is a legitimate outcome, not a failure.
		if err := p.chunkStore.DeleteFor(ctx, paperID); err != nil {
			return nil, fmt.Errorf("clear chunks: %w", err)
		}
		return &driving.IngestResult{ChunksCreated: 0}, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Content
	}

	embeddings, err := p.embedBatchWithRetry(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(candidates) {
		return nil, fmt.Errorf("embed chunks: got %d embeddings for %d chunks", len(embeddings), len(candidates))
	}

	chunks := make([]domain.Chunk, len(candidates))
	for i, c := range candidates {
		content := c.Content
		if len(content) > domain.MaxChunkContentLen {
			content = content[:domain.MaxChunkContentLen]
		}
		chunks[i] = domain.Chunk{
			ID:         uuid.New().String(),
			PaperID:    paperID,
			PageNumber: c.PageNumber,
			Content:    content,
			Embedding:  embeddings[i],
			Index:      i,
			Type:       domain.ChunkTypeBody,
		}
	}

	// Replace, not append: re-ingestion must not duplicate chunks.
	if err := p.chunkStore.DeleteFor(ctx, paperID); err != nil {
		return nil, fmt.Errorf("clear previous chunks: %w", err)
	}
	if err := p.chunkStore.InsertMany(ctx, paperID, chunks); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	return &driving.IngestResult{ChunksCreated: len(chunks)}, nil
}

// embedBatchWithRetry retries transient embedding failures a bounded
// number of times. Permanent failures surface immediately.
func (p *IngestionPipeline) embedBatchWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= maxEmbedAttempts; attempt++ {
		embeddings, err := p.embedder.EmbedBatch(ctx, texts)
		if err == nil {
			return embeddings, nil
		}
		lastErr = err

		if !retryableEmbedError(err) {
			return nil, err
		}
		if attempt == maxEmbedAttempts {
			break
		}

		logger.Debug("Embedding attempt %d/%d failed, retrying: %v", attempt, maxEmbedAttempts, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.retryDelay):
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxEmbedAttempts, lastErr)
}

// retryableEmbedError reports whether an embedding failure is worth
// another attempt.
func retryableEmbedError(err error) bool {
	return errors.Is(err, domain.ErrRateLimited) || errors.Is(err, domain.ErrEmbeddingUnavailable)
}
