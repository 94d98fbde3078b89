package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/paperchat/internal/core/domain"
)

func TestNewChunkStore(t *testing.T) {
	store := NewChunkStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.chunks)
}

func TestChunkStore_InsertMany_And_CountFor(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	err := store.InsertMany(ctx, "paper-1", []domain.Chunk{
		{ID: "c-1", PaperID: "paper-1", Content: "first", Index: 0, Embedding: []float32{1, 0}},
		{ID: "c-2", PaperID: "paper-1", Content: "second", Index: 1, Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)

	count, err := store.CountFor(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountFor(ctx, "paper-2")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestChunkStore_NearestTo_RanksByCosine(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	_ = store.InsertMany(ctx, "paper-1", []domain.Chunk{
		{ID: "c-1", PaperID: "paper-1", Index: 0, Embedding: []float32{1, 0}},
		{ID: "c-2", PaperID: "paper-1", Index: 1, Embedding: []float32{0.9, 0.1}},
		{ID: "c-3", PaperID: "paper-1", Index: 2, Embedding: []float32{0, 1}},
	})

	hits, err := store.NearestTo(ctx, "paper-1", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "c-1", hits[0].Chunk.ID)
	assert.Equal(t, "c-2", hits[1].Chunk.ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestChunkStore_NearestTo_NeverCrossesPapers(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	_ = store.InsertMany(ctx, "paper-1", []domain.Chunk{
		{ID: "c-1", PaperID: "paper-1", Index: 0, Embedding: []float32{1, 0}},
	})
	_ = store.InsertMany(ctx, "paper-2", []domain.Chunk{
		{ID: "c-2", PaperID: "paper-2", Index: 0, Embedding: []float32{1, 0}},
	})

	hits, err := store.NearestTo(ctx, "paper-1", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "paper-1", hits[0].Chunk.PaperID)
}

func TestChunkStore_NearestTo_TiesBrokenByLowerIndex(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	// Identical embeddings produce identical scores.
	_ = store.InsertMany(ctx, "paper-1", []domain.Chunk{
		{ID: "c-later", PaperID: "paper-1", Index: 5, Embedding: []float32{1, 1}},
		{ID: "c-earlier", PaperID: "paper-1", Index: 2, Embedding: []float32{1, 1}},
	})

	hits, err := store.NearestTo(ctx, "paper-1", []float32{1, 1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "c-earlier", hits[0].Chunk.ID)
	assert.Equal(t, "c-later", hits[1].Chunk.ID)
}

func TestChunkStore_NearestTo_SkipsUnembeddedChunks(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	_ = store.InsertMany(ctx, "paper-1", []domain.Chunk{
		{ID: "c-1", PaperID: "paper-1", Index: 0},
		{ID: "c-2", PaperID: "paper-1", Index: 1, Embedding: []float32{1, 0}},
	})

	hits, err := store.NearestTo(ctx, "paper-1", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c-2", hits[0].Chunk.ID)
}

func TestChunkStore_DeleteFor(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	_ = store.InsertMany(ctx, "paper-1", []domain.Chunk{
		{ID: "c-1", PaperID: "paper-1", Index: 0, Embedding: []float32{1}},
	})

	err := store.DeleteFor(ctx, "paper-1")
	require.NoError(t, err)

	count, err := store.CountFor(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestChunkStore_ConcurrentAccess(t *testing.T) {
	store := NewChunkStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.InsertMany(ctx, "paper-1", []domain.Chunk{
				{ID: string(rune('a' + n)), PaperID: "paper-1", Index: n, Embedding: []float32{1, 0}},
			})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.NearestTo(ctx, "paper-1", []float32{1, 0}, 3)
		}()
	}
	wg.Wait()

	count, err := store.CountFor(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
