package domain

import "time"

// SourceKind identifies how a paper entered the system.
type SourceKind string

const (
	// SourceUpload marks papers created from uploaded bytes.
	SourceUpload SourceKind = "upload"

	// SourceURL marks papers registered by URL. Fetching is handled by an
	// external collaborator, so URL papers may have no stored bytes yet.
	SourceURL SourceKind = "url"
)

// Paper represents an uploaded document and its processing lifecycle.
// Deleting a paper cascades to its chunks, sessions, messages and citations.
type Paper struct {
	// ID is the unique identifier for the paper.
	ID string

	// OwnerID identifies the user who owns this paper.
	OwnerID string

	// Title is the human-readable title.
	Title string

	// Source is how the paper entered the system (upload or url).
	Source SourceKind

	// StoragePath is the byte-store key for the raw bytes.
	// Empty until the bytes have been stored.
	StoragePath string

	// PageCount is the number of pages reported by text extraction.
	PageCount int

	// CreatedAt is when the paper was registered.
	CreatedAt time.Time

	// UpdatedAt is when the paper was last updated.
	UpdatedAt time.Time
}
