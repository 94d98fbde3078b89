// Package splitter provides page-aware windowed text chunking.
package splitter

import (
	"math"
	"strings"
)

// DefaultChunkSize is the target number of characters per chunk.
const DefaultChunkSize = 500

// DefaultMinChunkSize is the minimum buffer length before a cut is allowed.
const DefaultMinChunkSize = 100

// DefaultOverlap is the number of trailing characters carried into the
// next chunk so consecutive chunks share context.
const DefaultOverlap = 50

// Candidate is one chunk produced by splitting, before embedding.
type Candidate struct {
	// PageNumber is the 1-based estimated page the chunk falls on.
	PageNumber int

	// Content is the trimmed chunk text.
	Content string

	// StartIndex is the approximate character offset of the chunk start.
	StartIndex int

	// EndIndex is the approximate character offset just past the chunk.
	EndIndex int
}

// Splitter accumulates lines into overlapping chunks. Lines are never
// split: a single line longer than the chunk size is emitted whole as
// its own oversized chunk. Splitting is deterministic.
type Splitter struct {
	chunkSize    int
	minChunkSize int
	overlap      int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithMinChunkSize sets the minimum buffer length before a cut.
func WithMinChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.minChunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:    DefaultChunkSize,
		minChunkSize: DefaultMinChunkSize,
		overlap:      DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}
	if s.minChunkSize > s.chunkSize {
		s.minChunkSize = s.chunkSize
	}

	return s
}

// Split scans text line by line and emits ordered chunk candidates.
// Page numbers are estimated by linear proportion of characters consumed
// to total length, an accepted approximation when page density varies.
// Empty text yields no candidates.
func (s *Splitter) Split(text string, pageCount int) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if pageCount < 1 {
		pageCount = 1
	}

	total := len(text)
	lines := strings.Split(text, "\n")

	var out []Candidate
	var buf string
	consumed := 0
	start := 0

	for _, line := range lines {
		if len(buf)+len(line) > s.chunkSize && len(buf) >= s.minChunkSize {
			end := consumed
			if end > total {
				end = total
			}
			if content := strings.TrimSpace(buf); content != "" {
				out = append(out, Candidate{
					PageNumber: estimatePage(end, total, pageCount),
					Content:    content,
					StartIndex: start,
					EndIndex:   end,
				})
			}

			// Seed the next buffer with the tail of the previous one.
			seed := buf
			if len(seed) > s.overlap {
				seed = seed[len(seed)-s.overlap:]
			}
			buf = seed
			start = end - len(seed)
		}

		if buf == "" {
			buf = line
		} else {
			buf += "\n" + line
		}
		consumed += len(line) + 1
	}

	// The final partial buffer is emitted regardless of size.
	if content := strings.TrimSpace(buf); content != "" {
		out = append(out, Candidate{
			PageNumber: estimatePage(total, total, pageCount),
			Content:    content,
			StartIndex: start,
			EndIndex:   total,
		})
	}

	return out
}

// estimatePage maps a character offset to a 1-based page number by
// linear proportion, clamped to [1, pageCount].
func estimatePage(offset, total, pageCount int) int {
	if total <= 0 {
		return 1
	}
	page := int(math.Ceil(float64(offset) / float64(total) * float64(pageCount)))
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}
	return page
}
