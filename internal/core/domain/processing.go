package domain

import "time"

// ProcessingState is the lifecycle state of one paper's ingestion.
//
// Valid transitions:
//
//	pending    -> processing
//	processing -> completed | failed
//	completed  -> pending (explicit reset for re-ingestion)
//	failed     -> pending (explicit reset for re-ingestion)
//
// Terminal states never resurrect implicitly; a paper must be reset to
// pending before it can enter processing again.
type ProcessingState string

const (
	// StatePending means the paper is waiting to be processed.
	StatePending ProcessingState = "pending"

	// StateProcessing means ingestion is currently running.
	StateProcessing ProcessingState = "processing"

	// StateCompleted means all chunks were embedded and stored.
	StateCompleted ProcessingState = "completed"

	// StateFailed means ingestion hit an unrecoverable error.
	StateFailed ProcessingState = "failed"
)

// Valid reports whether s is one of the four named states.
func (s ProcessingState) Valid() bool {
	switch s {
	case StatePending, StateProcessing, StateCompleted, StateFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal state.
func (s ProcessingState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CanTransition reports whether a transition from s to next is legal.
func (s ProcessingState) CanTransition(next ProcessingState) bool {
	switch s {
	case StatePending:
		return next == StateProcessing
	case StateProcessing:
		return next == StateCompleted || next == StateFailed
	case StateCompleted, StateFailed:
		// Only an explicit reset re-opens a terminal paper.
		return next == StatePending
	}
	return false
}

// ProcessingStatus is the single status record for one paper.
// Exactly one record exists per paper; clients poll it for progress.
type ProcessingStatus struct {
	// PaperID links to the Paper being processed.
	PaperID string

	// State is the current lifecycle state.
	State ProcessingState

	// StartedAt is when processing began. Nil while pending.
	StartedAt *time.Time

	// CompletedAt is when processing finished (completed or failed).
	// Set on failure too, so duration stays computable.
	CompletedAt *time.Time

	// ChunksCreated is the number of chunks persisted for the paper.
	// Once State is completed this equals the stored chunk count.
	ChunksCreated int

	// Error is the human-readable failure message. Empty unless failed.
	Error string
}
