package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/paperchat/internal/adapters/driven/storage/memory"
	"github.com/quillhq/paperchat/internal/core/domain"
)

type chatFixture struct {
	manager    *ChatSessionManager
	chatStore  *memory.ChatStore
	chunkStore *memory.ChunkStore
	paperStore *memory.PaperStore
	embedder   *stubEmbedder
	generator  *stubGenerator
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	f := &chatFixture{
		chatStore:  memory.NewChatStore(),
		chunkStore: memory.NewChunkStore(),
		paperStore: memory.NewPaperStore(),
		embedder:   newStubEmbedder(),
		generator:  newStubGenerator("the answer, see page 1"),
	}
	retriever := NewRetrievalEngine(f.embedder, f.chunkStore)
	f.manager = NewChatSessionManager(f.chatStore, f.paperStore, retriever, f.generator)

	require.NoError(t, f.paperStore.Save(context.Background(), &domain.Paper{
		ID:      "paper-1",
		OwnerID: "alice",
		Title:   "Attention Is All You Need",
		Source:  domain.SourceUpload,
	}))
	return f
}

func (f *chatFixture) seedChunks(t *testing.T, n int) {
	t.Helper()
	seedChunks(t, f.chunkStore, "paper-1", n)
}

func (f *chatFixture) newSession(t *testing.T) *domain.ChatSession {
	t.Helper()
	session, err := f.manager.CreateSession(context.Background(), "alice", "paper-1", "")
	require.NoError(t, err)
	return session
}

func TestCreateSession(t *testing.T) {
	f := newChatFixture(t)

	session, err := f.manager.CreateSession(context.Background(), "alice", "paper-1", "reading notes")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "alice", session.OwnerID)
	assert.Equal(t, "paper-1", session.PaperID)
	assert.Equal(t, "reading notes", session.Title)
}

func TestCreateSession_DefaultsTitleToPaper(t *testing.T) {
	f := newChatFixture(t)

	session := f.newSession(t)
	assert.Equal(t, "Attention Is All You Need", session.Title)
}

func TestCreateSession_ForeignPaperLooksMissing(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.manager.CreateSession(context.Background(), "mallory", "paper-1", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSession_MissingPaper(t *testing.T) {
	f := newChatFixture(t)

	_, err := f.manager.CreateSession(context.Background(), "alice", "no-such-paper", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSessions_OnlyOwn(t *testing.T) {
	f := newChatFixture(t)
	f.newSession(t)

	sessions, err := f.manager.ListSessions(context.Background(), "alice", "paper-1")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	sessions, err = f.manager.ListSessions(context.Background(), "mallory", "paper-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestDeleteSession_OwnershipEnforced(t *testing.T) {
	f := newChatFixture(t)
	session := f.newSession(t)

	err := f.manager.DeleteSession(context.Background(), "mallory", session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.manager.DeleteSession(context.Background(), "alice", session.ID))

	_, err = f.manager.History(context.Background(), "alice", session.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostUserMessage(t *testing.T) {
	f := newChatFixture(t)
	session := f.newSession(t)

	msg, err := f.manager.PostUserMessage(context.Background(), "alice", session.ID, "a note to self")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, msg.Role)
	assert.Empty(t, msg.Citations)

	history, err := f.manager.History(context.Background(), "alice", session.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "a note to self", history[0].Content)
}

func TestPostUserMessage_EmptyContent(t *testing.T) {
	f := newChatFixture(t)
	session := f.newSession(t)

	_, err := f.manager.PostUserMessage(context.Background(), "alice", session.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnswer_FullTurn(t *testing.T) {
	f := newChatFixture(t)
	f.seedChunks(t, 3)
	session := f.newSession(t)

	reply, err := f.manager.Answer(context.Background(), "alice", session.ID, "what is attention?")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, reply.Role)
	assert.Equal(t, "the answer, see page 1", reply.Content)
	require.NotEmpty(t, reply.Citations)

	for _, citation := range reply.Citations {
		assert.NotEmpty(t, citation.ChunkID)
		assert.Equal(t, reply.ID, citation.MessageID)
		assert.GreaterOrEqual(t, citation.PageNumber, 1)
		assert.NotEmpty(t, citation.Excerpt)
	}

	// History holds exactly the user turn then the assistant turn.
	history, err := f.manager.History(context.Background(), "alice", session.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Len(t, history[1].Citations, len(reply.Citations))
}

func TestAnswer_PromptContainsExcerptsAndQuestion(t *testing.T) {
	f := newChatFixture(t)
	f.seedChunks(t, 2)
	session := f.newSession(t)

	_, err := f.manager.Answer(context.Background(), "alice", session.ID, "what is attention?")
	require.NoError(t, err)

	messages := f.generator.lastMessages()
	require.NotEmpty(t, messages)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "[page ")
	assert.Contains(t, messages[0].Content, "chunk content")

	last := messages[len(messages)-1]
	assert.Equal(t, domain.RoleUser, last.Role)
	assert.Equal(t, "what is attention?", last.Content)
}

func TestAnswer_NoChunksStillAnswers(t *testing.T) {
	f := newChatFixture(t)
	session := f.newSession(t)

	reply, err := f.manager.Answer(context.Background(), "alice", session.ID, "anything here?")
	require.NoError(t, err)
	assert.Empty(t, reply.Citations)

	messages := f.generator.lastMessages()
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0].Content, "No relevant excerpts")
}

func TestAnswer_GeneratorFailureKeepsUserMessage(t *testing.T) {
	f := newChatFixture(t)
	f.seedChunks(t, 2)
	f.generator.err = errors.New("model overloaded")
	session := f.newSession(t)

	_, err := f.manager.Answer(context.Background(), "alice", session.ID, "what is attention?")
	require.Error(t, err)

	// The question survives; no half-written assistant message does.
	history, histErr := f.manager.History(context.Background(), "alice", session.ID)
	require.NoError(t, histErr)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RoleUser, history[0].Role)
}

func TestAnswer_HistoryFlowsIntoPrompt(t *testing.T) {
	f := newChatFixture(t)
	session := f.newSession(t)

	_, err := f.manager.Answer(context.Background(), "alice", session.ID, "first question")
	require.NoError(t, err)
	_, err = f.manager.Answer(context.Background(), "alice", session.ID, "second question")
	require.NoError(t, err)

	messages := f.generator.lastMessages()
	var sawFirstQuestion, sawFirstAnswer bool
	for _, msg := range messages[:len(messages)-1] {
		if msg.Role == domain.RoleUser && msg.Content == "first question" {
			sawFirstQuestion = true
		}
		if msg.Role == domain.RoleAssistant {
			sawFirstAnswer = true
		}
	}
	assert.True(t, sawFirstQuestion)
	assert.True(t, sawFirstAnswer)
}

func TestAnswer_OwnershipEnforced(t *testing.T) {
	f := newChatFixture(t)
	session := f.newSession(t)

	_, err := f.manager.Answer(context.Background(), "mallory", session.ID, "give me the data")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSelectWithinBudget(t *testing.T) {
	ranked := []domain.ScoredChunk{
		{Chunk: domain.Chunk{ID: "a", Content: strings.Repeat("x", 300)}, Score: 0.9},
		{Chunk: domain.Chunk{ID: "b", Content: strings.Repeat("x", 300)}, Score: 0.8},
		{Chunk: domain.Chunk{ID: "c", Content: strings.Repeat("x", 300)}, Score: 0.7},
	}

	used := selectWithinBudget(ranked, 650)
	require.Len(t, used, 2)
	assert.Equal(t, "a", used[0].ID)
	assert.Equal(t, "b", used[1].ID)
}

func TestSelectWithinBudget_SkipsOversizedKeepsSmaller(t *testing.T) {
	ranked := []domain.ScoredChunk{
		{Chunk: domain.Chunk{ID: "big", Content: strings.Repeat("x", 500)}, Score: 0.9},
		{Chunk: domain.Chunk{ID: "small", Content: strings.Repeat("x", 50)}, Score: 0.8},
	}

	used := selectWithinBudget(ranked, 100)
	require.Len(t, used, 1)
	assert.Equal(t, "small", used[0].ID)
}
