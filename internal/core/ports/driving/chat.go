package driving

import (
	"context"

	"github.com/quillhq/paperchat/internal/core/domain"
)

// ChatService owns conversation state over papers. Every operation
// verifies the caller owns the session (and, at creation, the paper)
// before any read or write.
type ChatService interface {
	// CreateSession opens a conversation against an owned paper.
	CreateSession(ctx context.Context, ownerID, paperID, title string) (*domain.ChatSession, error)

	// ListSessions returns the caller's sessions over a paper.
	ListSessions(ctx context.Context, ownerID, paperID string) ([]domain.ChatSession, error)

	// DeleteSession removes a session with its messages and citations.
	DeleteSession(ctx context.Context, ownerID, sessionID string) error

	// History returns a session's messages in creation order.
	History(ctx context.Context, ownerID, sessionID string) ([]domain.ChatMessage, error)

	// PostUserMessage appends a user message without generating a reply.
	PostUserMessage(ctx context.Context, ownerID, sessionID, content string) (*domain.ChatMessage, error)

	// Answer runs one full chat turn: persist the user message, retrieve
	// supporting chunks, generate a reply and persist it with one
	// citation per chunk used. A generator failure fails the turn
	// without leaving a half-written assistant message.
	Answer(ctx context.Context, ownerID, sessionID, content string) (*domain.ChatMessage, error)
}
