package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
	"github.com/quillhq/paperchat/internal/core/ports/driving"
	"github.com/quillhq/paperchat/internal/logger"
)

// Ensure ChatSessionManager implements the interface.
var _ driving.ChatService = (*ChatSessionManager)(nil)

const (
	// contextCharBudget caps how much chunk text goes into one prompt.
	contextCharBudget = 4000

	// excerptLen bounds the excerpt stored with each citation.
	excerptLen = 200

	// historyTurnLimit bounds how many prior messages enter the prompt.
	historyTurnLimit = 20
)

// systemPrompt frames every answer turn.
const systemPrompt = `You are a research assistant answering questions about a single paper.
Answer using ONLY the provided excerpts. Each excerpt is labelled with its page number.
When you use an excerpt, mention its page number. If the excerpts do not contain the
answer, say so rather than guessing.`

// ChatSessionManager owns conversation state over papers.
type ChatSessionManager struct {
	chatStore  driven.ChatStore
	paperStore driven.PaperStore
	retriever  driving.Retriever
	generator  driven.Generator
}

// NewChatSessionManager creates a new chat session manager.
func NewChatSessionManager(
	chatStore driven.ChatStore,
	paperStore driven.PaperStore,
	retriever driving.Retriever,
	generator driven.Generator,
) *ChatSessionManager {
	return &ChatSessionManager{
		chatStore:  chatStore,
		paperStore: paperStore,
		retriever:  retriever,
		generator:  generator,
	}
}

// CreateSession opens a conversation against an owned paper.
func (m *ChatSessionManager) CreateSession(ctx context.Context, ownerID, paperID, title string) (*domain.ChatSession, error) {
	paper, err := m.paperStore.Get(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("get paper: %w", err)
	}
	if paper.OwnerID != ownerID {
		// Foreign papers look like missing papers.
		return nil, domain.ErrNotFound
	}

	if strings.TrimSpace(title) == "" {
		title = paper.Title
	}

	session := &domain.ChatSession{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		PaperID: paperID,
		Title:   title,
	}
	if err := m.chatStore.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	logger.Debug("Created session %s for paper %s", session.ID, paperID)
	return session, nil
}

// ListSessions returns the caller's sessions over a paper.
func (m *ChatSessionManager) ListSessions(ctx context.Context, ownerID, paperID string) ([]domain.ChatSession, error) {
	sessions, err := m.chatStore.ListSessionsByPaper(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	owned := make([]domain.ChatSession, 0, len(sessions))
	for _, s := range sessions {
		if s.OwnerID == ownerID {
			owned = append(owned, s)
		}
	}
	return owned, nil
}

// DeleteSession removes a session with its messages and citations.
func (m *ChatSessionManager) DeleteSession(ctx context.Context, ownerID, sessionID string) error {
	if _, err := m.ownedSession(ctx, ownerID, sessionID); err != nil {
		return err
	}
	if err := m.chatStore.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// History returns a session's messages in creation order.
func (m *ChatSessionManager) History(ctx context.Context, ownerID, sessionID string) ([]domain.ChatMessage, error) {
	if _, err := m.ownedSession(ctx, ownerID, sessionID); err != nil {
		return nil, err
	}
	msgs, err := m.chatStore.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// PostUserMessage appends a user message without generating a reply.
func (m *ChatSessionManager) PostUserMessage(ctx context.Context, ownerID, sessionID, content string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content is empty", domain.ErrInvalidInput)
	}
	if _, err := m.ownedSession(ctx, ownerID, sessionID); err != nil {
		return nil, err
	}
	return m.appendUserMessage(ctx, sessionID, content)
}

// Answer runs one full chat turn.
func (m *ChatSessionManager) Answer(ctx context.Context, ownerID, sessionID, content string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content is empty", domain.ErrInvalidInput)
	}
	session, err := m.ownedSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	// Prior history, captured before this turn's user message.
	history, err := m.chatStore.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	// The user message persists even if generation fails; the question
	// was asked and the turn can be retried.
	if _, err := m.appendUserMessage(ctx, sessionID, content); err != nil {
		return nil, err
	}

	ranked, err := m.retriever.Retrieve(ctx, session.PaperID, content, domain.RetrieveOptions{})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	used := selectWithinBudget(ranked, contextCharBudget)
	prompt := buildMessages(history, used, content)

	reply, err := m.generator.Chat(ctx, prompt, driven.ChatOptions{})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	assistant := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now().UTC(),
	}
	for _, sc := range used {
		assistant.Citations = append(assistant.Citations, domain.Citation{
			ID:         uuid.New().String(),
			MessageID:  assistant.ID,
			ChunkID:    sc.ID,
			Score:      sc.Score,
			PageNumber: sc.PageNumber,
			Excerpt:    excerpt(sc.Content),
		})
	}

	// Message and citations land together or not at all.
	if err := m.chatStore.AppendMessage(ctx, assistant); err != nil {
		return nil, fmt.Errorf("save answer: %w", err)
	}

	logger.Debug("Answered in session %s with %d citations", sessionID, len(assistant.Citations))
	return assistant, nil
}

// ownedSession loads a session and verifies ownership. Foreign
// sessions look like missing sessions.
func (m *ChatSessionManager) ownedSession(ctx context.Context, ownerID, sessionID string) (*domain.ChatSession, error) {
	session, err := m.chatStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func (m *ChatSessionManager) appendUserMessage(ctx context.Context, sessionID, content string) (*domain.ChatMessage, error) {
	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.chatStore.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}
	return msg, nil
}

// selectWithinBudget keeps ranked chunks, highest score first, until
// adding another would blow the character budget.
func selectWithinBudget(ranked []domain.ScoredChunk, budget int) []domain.ScoredChunk {
	var used []domain.ScoredChunk
	remaining := budget
	for _, sc := range ranked {
		if len(sc.Content) > remaining {
			continue
		}
		used = append(used, sc)
		remaining -= len(sc.Content)
	}
	return used
}

// buildMessages assembles the generator conversation: system prompt
// with excerpts, bounded prior history, then the user's question.
func buildMessages(history []domain.ChatMessage, used []domain.ScoredChunk, question string) []driven.Message {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	if len(used) > 0 {
		sb.WriteString("\n\nExcerpts:\n")
		for _, sc := range used {
			fmt.Fprintf(&sb, "\n[page %d]\n%s\n", sc.PageNumber, sc.Content)
		}
	} else {
		sb.WriteString("\n\nNo relevant excerpts were found for this question.")
	}

	messages := []driven.Message{
		{Role: domain.RoleSystem, Content: sb.String()},
	}

	if len(history) > historyTurnLimit {
		history = history[len(history)-historyTurnLimit:]
	}
	for _, msg := range history {
		if msg.Role != domain.RoleUser && msg.Role != domain.RoleAssistant {
			continue
		}
		messages = append(messages, driven.Message{Role: msg.Role, Content: msg.Content})
	}

	messages = append(messages, driven.Message{Role: domain.RoleUser, Content: question})
	return messages
}

// excerpt trims chunk content down to citation size.
func excerpt(content string) string {
	if len(content) <= excerptLen {
		return content
	}
	return content[:excerptLen]
}
