package driven

import "context"

// ExtractResult is the text pulled out of raw document bytes.
type ExtractResult struct {
	// Text is the flat extracted text.
	Text string

	// PageCount is the extractor's page estimate, always >= 1 for
	// non-empty text.
	PageCount int
}

// TextExtractor turns raw document bytes into flat text plus a page
// count hint. Extraction failures are fatal for the ingestion that
// triggered them and are never retried.
type TextExtractor interface {
	// Extract pulls text from raw bytes.
	Extract(ctx context.Context, data []byte) (*ExtractResult, error)
}
