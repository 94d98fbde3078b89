// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
//
// These are the capabilities the core services require from the outside
// world: persistence, the embedding model, the text generator, the byte
// store and text extraction. Services receive implementations through
// constructors so tests can substitute in-memory fakes without network
// or disk access.
package driven
