package domain

// ChunkTypeBody is the default chunk type tag for document body text.
const ChunkTypeBody = "body"

// MaxChunkContentLen bounds the stored content of a single chunk.
// The splitter never cuts mid-line, so a pathological single line may
// exceed the target chunk size but is still capped here at persistence.
const MaxChunkContentLen = 2000

// Chunk represents a retrievable unit of paper text.
// Chunks are immutable once written and are deleted with their paper.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// PaperID links to the owning Paper.
	PaperID string

	// PageNumber is the 1-based estimated page this chunk starts on.
	PageNumber int

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation for similarity search.
	// Nil until the chunk has been embedded.
	Embedding []float32

	// Index is the ordinal position within the paper.
	Index int

	// Type tags the kind of content (currently always "body").
	Type string
}

// ScoredChunk pairs a chunk with its similarity score from retrieval.
// Higher scores mean more relevant; scores are passed through unmodified
// from the store so callers can apply their own thresholds.
type ScoredChunk struct {
	Chunk
	Score float64
}

// RetrieveOptions configures a retrieval query.
type RetrieveOptions struct {
	// TopK is the number of nearest chunks to fetch (default 5).
	TopK int

	// Offset is the number of results to skip for pagination.
	Offset int
}
