// Package driving provides interfaces for external actors (primary/inbound ports).
//
// These are the operations the outside world may ask of the core:
// managing papers, running ingestion, retrieving chunks and holding
// chat sessions. The CLI adapter drives the core through these
// interfaces only.
package driving
