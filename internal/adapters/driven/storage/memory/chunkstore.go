package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore using
// brute-force cosine similarity.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string][]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string][]domain.Chunk),
	}
}

// InsertMany stores all chunks for one paper as a single batch.
func (s *ChunkStore) InsertMany(_ context.Context, paperID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[paperID] = append(s.chunks[paperID], chunks...)
	return nil
}

// NearestTo returns the k most similar chunks of the given paper,
// sorted descending by cosine similarity, ties broken by lower index.
func (s *ChunkStore) NearestTo(_ context.Context, paperID string, query []float32, k int) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		return nil, nil
	}

	chunks := s.chunks[paperID]
	scored := make([]domain.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			continue
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: CosineSimilarity(query, chunk.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Index < scored[j].Chunk.Index
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// CountFor returns the number of stored chunks for a paper.
func (s *ChunkStore) CountFor(_ context.Context, paperID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[paperID]), nil
}

// DeleteFor removes all chunks for a paper.
func (s *ChunkStore) DeleteFor(_ context.Context, paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chunks, paperID)
	return nil
}

// Get retrieves a chunk by ID. Not part of the port; used by tests.
func (s *ChunkStore) Get(_ context.Context, chunkID string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == chunkID {
				return &chunk, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Mismatched dimensions score over the shorter prefix; zero vectors
// score zero.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
