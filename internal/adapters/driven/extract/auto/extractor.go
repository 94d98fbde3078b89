// Package auto routes document bytes to a format-specific extractor.
package auto

import (
	"context"
	"regexp"
	"strings"

	"github.com/quillhq/paperchat/internal/adapters/driven/extract/html"
	"github.com/quillhq/paperchat/internal/adapters/driven/extract/markdown"
	"github.com/quillhq/paperchat/internal/adapters/driven/extract/plaintext"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor sniffs the content format and delegates to the matching
// extractor. Anything that is neither HTML nor Markdown is treated as
// plain text.
type Extractor struct {
	html      *html.Extractor
	markdown  *markdown.Extractor
	plaintext *plaintext.Extractor
}

// New creates a format-sniffing extractor.
func New() *Extractor {
	return &Extractor{
		html:      html.New(),
		markdown:  markdown.New(),
		plaintext: plaintext.New(),
	}
}

// Extract pulls text from raw bytes using the detected format.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*driven.ExtractResult, error) {
	// Sniffing only needs the head of the document.
	head := data
	if len(head) > 4096 {
		head = head[:4096]
	}

	switch {
	case looksLikeHTML(string(head)):
		return e.html.Extract(ctx, data)
	case looksLikeMarkdown(string(head)):
		return e.markdown.Extract(ctx, data)
	default:
		return e.plaintext.Extract(ctx, data)
	}
}

var (
	htmlSignal     = regexp.MustCompile(`(?i)<!doctype html|<html[\s>]|<body[\s>]|<head[\s>]`)
	mdHeading      = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
	mdLink         = regexp.MustCompile(`\[[^\]]+\]\([^)]+\)`)
	mdListOrdered  = regexp.MustCompile(`(?m)^\s*\d+\.\s+\S`)
	mdListBulleted = regexp.MustCompile(`(?m)^\s*[-*+]\s+\S`)
)

func looksLikeHTML(head string) bool {
	return htmlSignal.MatchString(head)
}

// looksLikeMarkdown wants at least two distinct Markdown signals; one
// stray heading-like line in prose is not enough.
func looksLikeMarkdown(head string) bool {
	signals := 0
	if mdHeading.MatchString(head) {
		signals++
	}
	if mdLink.MatchString(head) {
		signals++
	}
	if mdListOrdered.MatchString(head) || mdListBulleted.MatchString(head) {
		signals++
	}
	if strings.Contains(head, "```") {
		signals++
	}
	return signals >= 2
}
