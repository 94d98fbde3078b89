// Package services implements the core business logic.
//
// Services implement the driving port interfaces and depend only on
// driven port interfaces, never on concrete adapters. The ingestion
// pipeline, retrieval engine, chat manager and paper lifecycle all
// live here.
package services
