// Package sqlite provides the SQLite-backed document catalog behind
// "agsi store".
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Each catalog row holds the canonical text of one document along with
// summary columns and its SHA-256 checksum.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files; applied
// versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.agsi/data/catalog.db
package sqlite
