package driven

import (
	"context"

	"github.com/quillhq/paperchat/internal/core/domain"
)

// ChatStore persists chat sessions, their append-only message logs and
// the citations attached to assistant messages.
type ChatStore interface {
	// SaveSession stores or updates a session.
	SaveSession(ctx context.Context, session *domain.ChatSession) error

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)

	// ListSessionsByPaper returns all sessions over a paper.
	ListSessionsByPaper(ctx context.Context, paperID string) ([]domain.ChatSession, error)

	// DeleteSession removes a session and its messages and citations.
	DeleteSession(ctx context.Context, id string) error

	// AppendMessage appends a message to a session's log. The message
	// and any citations it carries are persisted atomically: a failed
	// call leaves no half-written assistant message behind.
	AppendMessage(ctx context.Context, msg *domain.ChatMessage) error

	// ListMessages returns a session's messages ordered by creation
	// time, ties broken by insertion order. Citations are included.
	ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}
