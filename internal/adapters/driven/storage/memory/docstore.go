package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

type stored struct {
	entry   domain.CatalogEntry
	payload []byte
}

// DocumentStore is an in-memory catalog.
type DocumentStore struct {
	mu      sync.RWMutex
	entries map[string]stored
	closed  bool
}

// NewDocumentStore creates a new in-memory catalog.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		entries: make(map[string]stored),
	}
}

// Put stores or replaces an entry and its payload.
func (s *DocumentStore) Put(ctx context.Context, entry domain.CatalogEntry, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.ID == "" {
		return fmt.Errorf("%w: empty catalog id", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	s.entries[entry.ID] = stored{entry: entry, payload: append([]byte(nil), payload...)}
	return nil
}

// Get retrieves an entry and a copy of its payload.
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.CatalogEntry, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, nil, errClosed
	}
	st, ok := s.entries[id]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	entry := st.entry
	return &entry, append([]byte(nil), st.payload...), nil
}

// List returns all entries ordered by ID.
func (s *DocumentStore) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := make([]domain.CatalogEntry, 0, len(s.entries))
	for _, st := range s.entries {
		out = append(out, st.entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes an entry.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	if _, ok := s.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// Close marks the store closed. Later calls fail.
func (s *DocumentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
