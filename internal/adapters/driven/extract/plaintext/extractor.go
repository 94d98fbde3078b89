// Package plaintext extracts text from plain-text document bytes.
package plaintext

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// charsPerPage is the page estimate for documents without explicit
// page breaks, roughly one printed page of prose.
const charsPerPage = 3000

// Extractor treats input bytes as UTF-8 text. Form feed characters
// (\f) are honoured as page breaks; without them the page count is
// estimated from text length.
type Extractor struct{}

// New creates a plain-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract pulls text from raw bytes.
func (e *Extractor) Extract(_ context.Context, data []byte) (*driven.ExtractResult, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8 text", domain.ErrExtractionFailed)
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return &driven.ExtractResult{Text: "", PageCount: 0}, nil
	}

	pageCount := countPages(text)

	// Page breaks served their purpose; the chunker works on flat text.
	text = strings.ReplaceAll(text, "\f", "\n")

	return &driven.ExtractResult{
		Text:      text,
		PageCount: pageCount,
	}, nil
}

// countPages returns the explicit page count when form feeds are
// present, otherwise a length-based estimate.
func countPages(text string) int {
	if strings.Contains(text, "\f") {
		pages := 0
		for _, part := range strings.Split(text, "\f") {
			if strings.TrimSpace(part) != "" {
				pages++
			}
		}
		if pages == 0 {
			pages = 1
		}
		return pages
	}

	pages := (len(text) + charsPerPage - 1) / charsPerPage
	if pages < 1 {
		pages = 1
	}
	return pages
}
