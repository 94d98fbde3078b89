// Package markdown extracts plain text from Markdown document bytes.
package markdown

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quillhq/paperchat/internal/adapters/driven/extract/plaintext"
	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor strips Markdown formatting and hands the remaining text to
// the plain text extractor for page counting.
type Extractor struct {
	plain *plaintext.Extractor
}

// New creates a Markdown extractor.
func New() *Extractor {
	return &Extractor{plain: plaintext.New()}
}

// Extract pulls plain text from raw Markdown bytes.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	if !utf8.Valid(data) {
		return nil, domain.ErrExtractionFailed
	}
	text := StripFormatting(string(data))
	return e.plain.Extract(ctx, []byte(text))
}

var (
	codeBlock    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode   = regexp.MustCompile("`[^`]+`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	horizontalHR = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiBlank   = regexp.MustCompile(`\n{3,}`)
)

// StripFormatting removes common Markdown syntax, keeping the prose.
// This is a simplified implementation that handles common cases.
func StripFormatting(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")

	// Links keep their text, lose their URL
	content = links.ReplaceAllString(content, "$1")

	content = headings.ReplaceAllString(content, "")

	// Bold/italic markers
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "_", " ")

	content = blockquote.ReplaceAllString(content, "")
	content = horizontalHR.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")

	content = multiBlank.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
