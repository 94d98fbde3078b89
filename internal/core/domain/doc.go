// Package domain defines the core business entities for Paperchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Paper: An uploaded document with its processing lifecycle
//   - Chunk: A retrievable span of paper text with its embedding
//   - ProcessingStatus: The ingestion state machine record for a paper
//   - ChatSession / ChatMessage / Citation: Conversation state over a paper
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
