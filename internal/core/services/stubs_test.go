package services

import (
	"context"
	"sync"

	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// stubEmbedder returns canned vectors, with optional scripted failures.
type stubEmbedder struct {
	mu sync.Mutex

	// vectors maps exact text to its embedding. Texts not in the map
	// get defaultVec.
	vectors    map[string][]float32
	defaultVec []float32

	// failures is consumed one error per call before any success.
	failures []error

	calls int
}

var _ driven.EmbeddingService = (*stubEmbedder)(nil)

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{
		vectors:    map[string][]float32{},
		defaultVec: []float32{1, 0, 0},
	}
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if len(s.failures) > 0 {
		err := s.failures[0]
		s.failures = s.failures[1:]
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if vec, ok := s.vectors[text]; ok {
			out[i] = vec
		} else {
			out[i] = s.defaultVec
		}
	}
	return out, nil
}

func (s *stubEmbedder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubEmbedder) Dimensions() int            { return 3 }
func (s *stubEmbedder) ModelName() string          { return "stub-embedder" }
func (s *stubEmbedder) Ping(context.Context) error { return nil }
func (s *stubEmbedder) Close() error               { return nil }

// stubGenerator replies with a fixed answer and records the
// conversation it was given.
type stubGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	lastChat []driven.Message
}

var _ driven.Generator = (*stubGenerator)(nil)

func newStubGenerator(reply string) *stubGenerator {
	return &stubGenerator{reply: reply}
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return g.Chat(ctx, []driven.Message{{Role: "user", Content: prompt}}, driven.ChatOptions{})
}

func (g *stubGenerator) Chat(_ context.Context, messages []driven.Message, _ driven.ChatOptions) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastChat = messages
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *stubGenerator) lastMessages() []driven.Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastChat
}

func (g *stubGenerator) ModelName() string          { return "stub-generator" }
func (g *stubGenerator) Ping(context.Context) error { return nil }
func (g *stubGenerator) Close() error               { return nil }
