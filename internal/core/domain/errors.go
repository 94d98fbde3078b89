package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccessDenied indicates the caller does not own the entity.
	// Surfaced the same as ErrNotFound at outer boundaries so ownership
	// cannot be probed, but kept distinct for logging.
	ErrAccessDenied = errors.New("access denied")

	// ErrIngestionInProgress indicates the paper is already being ingested.
	// A second concurrent ingestion attempt is rejected, not queued.
	ErrIngestionInProgress = errors.New("ingestion in progress")

	// ErrInvalidTransition indicates an illegal processing-state transition,
	// e.g. completed -> processing without an explicit reset.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrRateLimited indicates the remote API rate limit was exceeded.
	// Callers may retry a bounded number of times.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGeneratorUnavailable indicates the text generator is not configured.
	ErrGeneratorUnavailable = errors.New("text generator unavailable")

	// ErrExtractionFailed indicates raw bytes could not yield text.
	// Fatal for that ingestion; never retried.
	ErrExtractionFailed = errors.New("text extraction failed")
)
