package splitter

import (
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.minChunkSize != DefaultMinChunkSize {
			t.Errorf("expected minChunkSize %d, got %d", DefaultMinChunkSize, s.minChunkSize)
		}
		if s.overlap != DefaultOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultOverlap, s.overlap)
		}
	})

	t.Run("custom options", func(t *testing.T) {
		s := New(WithChunkSize(200), WithMinChunkSize(40), WithOverlap(10))
		if s.chunkSize != 200 || s.minChunkSize != 40 || s.overlap != 10 {
			t.Errorf("options not applied: %+v", s)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(150))
		if s.overlap >= s.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1), WithMinChunkSize(0))
		if s.chunkSize != DefaultChunkSize || s.overlap != DefaultOverlap {
			t.Errorf("expected defaults, got %+v", s)
		}
	})
}

func TestSplitter_Split_EmptyText(t *testing.T) {
	s := New()
	if chunks := s.Split("", 1); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty text, got %d", len(chunks))
	}
	if chunks := s.Split("   \n\t\n  ", 1); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for whitespace text, got %d", len(chunks))
	}
}

func TestSplitter_Split_SmallText(t *testing.T) {
	s := New()
	text := "A short paragraph that fits in one chunk."

	chunks := s.Split(text, 1)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != text {
		t.Errorf("expected content to match input text")
	}
	if chunks[0].PageNumber != 1 {
		t.Errorf("expected page 1, got %d", chunks[0].PageNumber)
	}
}

// twentyLines builds 20 distinct 59-character lines, 1199 characters
// total, which splits into exactly three chunks at the default sizes.
func twentyLines() string {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = fmt.Sprintf("line%02d ", i) + strings.Repeat(string(rune('a'+i)), 52)
	}
	return strings.Join(lines, "\n")
}

func TestSplitter_Split_OverlapSeedsNextChunk(t *testing.T) {
	s := New()
	text := twentyLines()

	chunks := s.Split(text, 3)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Content
		seed := prev[len(prev)-DefaultOverlap:]
		if !strings.HasPrefix(chunks[i].Content, seed) {
			t.Errorf("chunk %d does not start with the previous chunk's last %d chars", i, DefaultOverlap)
		}
	}
}

func TestSplitter_Split_NoLinesDropped(t *testing.T) {
	s := New()
	text := twentyLines()

	chunks := s.Split(text, 3)
	var all strings.Builder
	for _, c := range chunks {
		all.WriteString(c.Content)
		all.WriteString("\n")
	}
	joined := all.String()

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(joined, line) {
			t.Errorf("line %q missing from chunk contents", line[:10])
		}
	}
}

func TestSplitter_Split_PageNumbersInRange(t *testing.T) {
	s := New()
	text := twentyLines()

	for _, pageCount := range []int{1, 3, 10} {
		chunks := s.Split(text, pageCount)
		lastPage := 0
		for i, c := range chunks {
			if c.PageNumber < 1 || c.PageNumber > pageCount {
				t.Errorf("pageCount=%d chunk %d: page %d out of range", pageCount, i, c.PageNumber)
			}
			if c.PageNumber < lastPage {
				t.Errorf("pageCount=%d chunk %d: page numbers decreased", pageCount, i)
			}
			lastPage = c.PageNumber
		}
	}
}

func TestSplitter_Split_MinChunkSizeRespected(t *testing.T) {
	s := New()
	chunks := s.Split(twentyLines(), 3)

	for i, c := range chunks[:len(chunks)-1] {
		if len(c.Content) < DefaultMinChunkSize {
			t.Errorf("chunk %d shorter than min size: %d", i, len(c.Content))
		}
	}
}

func TestSplitter_Split_NeverSplitsALine(t *testing.T) {
	s := New(WithChunkSize(100), WithMinChunkSize(20), WithOverlap(0))
	long := strings.Repeat("x", 300)
	text := "short first line\n" + long + "\nshort last line"

	chunks := s.Split(text, 1)
	found := false
	for _, c := range chunks {
		if strings.Contains(c.Content, long) {
			found = true
		}
		if strings.Contains(c.Content, "x") && !strings.Contains(c.Content, long) {
			t.Error("oversized line was split across chunks")
		}
	}
	if !found {
		t.Error("oversized line missing from output")
	}
}

func TestSplitter_Split_Deterministic(t *testing.T) {
	s := New()
	text := twentyLines()

	first := s.Split(text, 3)
	second := s.Split(text, 3)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitter_Split_FinalPartialChunkEmitted(t *testing.T) {
	s := New(WithChunkSize(100), WithMinChunkSize(20), WithOverlap(0))
	text := strings.Repeat("abcdefghi\n", 12) + "tail"

	chunks := s.Split(text, 1)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(last.Content, "tail") {
		t.Errorf("final partial chunk missing: %q", last.Content)
	}
}
