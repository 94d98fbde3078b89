package driving

import "context"

// IngestResult summarises a completed ingestion.
type IngestResult struct {
	// ChunksCreated is the number of chunks embedded and stored.
	// Zero is a legitimate success for papers with no extractable text.
	ChunksCreated int
}

// Ingestor turns extracted paper text into embedded, stored chunks and
// drives the processing state machine for the paper.
type Ingestor interface {
	// Ingest processes one paper's text to completion or failure.
	// On any error the paper's status ends failed with a human-readable
	// message; the paper is never left processing after return.
	Ingest(ctx context.Context, paperID, text string, pageCount int) (*IngestResult, error)
}
