// Package sqlite provides a SQLite-based implementation of the persistence
// ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements several store interfaces
// through a single database connection:
//
//   - DocumentStore: Ingested legal documents and their tags
//   - QueryStore: Questions and generated answers
//   - WritingStore: Drafting requests and generated drafts
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.lexa/data/lexa.db
//
// # Ordering
//
// Listings follow first-insertion order (rowid). Replacing a document with
// Save keeps its position.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
