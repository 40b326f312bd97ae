package driven

import (
	"context"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// DocumentStore persists documents in a local catalog.
// Payloads are canonical text; the store never interprets them.
type DocumentStore interface {
	// Put stores or replaces the entry and payload for entry.ID.
	Put(ctx context.Context, entry domain.CatalogEntry, payload []byte) error

	// Get retrieves an entry and its payload by document ID.
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.CatalogEntry, []byte, error)

	// List returns all entries ordered by ID.
	List(ctx context.Context) ([]domain.CatalogEntry, error)

	// Delete removes an entry. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}

// FileStore reads and writes whole files.
type FileStore interface {
	// ReadFile returns the file contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file contents atomically.
	WriteFile(path string, data []byte) error
}
