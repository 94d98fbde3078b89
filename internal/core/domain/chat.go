package domain

import "time"

// Message roles within a chat session.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatSession is a conversation a user holds against one paper.
type ChatSession struct {
	// ID is the unique identifier for the session.
	ID string

	// OwnerID identifies the user who owns this session.
	// It always matches the owner of the session's paper.
	OwnerID string

	// PaperID links to the paper this conversation is about.
	PaperID string

	// Title is the human-readable session title.
	Title string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// UpdatedAt is when the session last received a message.
	UpdatedAt time.Time
}

// ChatMessage is one entry in a session's append-only message log.
// Messages are ordered by creation time, ties broken by insertion order.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string

	// SessionID links to the owning ChatSession.
	SessionID string

	// Role is one of RoleUser, RoleAssistant or RoleSystem.
	Role string

	// Content is the message text.
	Content string

	// Citations are the chunks that supported an assistant reply.
	// Empty for user and system messages.
	Citations []Citation

	// CreatedAt is when the message was appended.
	CreatedAt time.Time
}

// Citation links an assistant message back to a supporting chunk.
// It references the chunk rather than owning it; the page number and
// excerpt are denormalised copies for display.
type Citation struct {
	// ID is the unique identifier for the citation.
	ID string

	// MessageID links to the assistant message this citation supports.
	MessageID string

	// ChunkID references the supporting chunk.
	ChunkID string

	// Score is the relevance score from retrieval (higher = more relevant).
	Score float64

	// PageNumber is copied from the chunk for display.
	PageNumber int

	// Excerpt is an optional snippet of the chunk content.
	Excerpt string
}
