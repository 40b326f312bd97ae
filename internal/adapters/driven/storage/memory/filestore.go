package memory

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
)

var errClosed = errors.New("memory store closed")

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

// FileStore keeps file contents in a map keyed by path.
type FileStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewFileStore creates an empty in-memory file store.
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string][]byte)}
}

// ReadFile returns a copy of the contents at path.
func (s *FileStore) ReadFile(path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// WriteFile replaces the contents at path.
func (s *FileStore) WriteFile(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = append([]byte(nil), data...)
	return nil
}

// Paths returns the stored paths in order.
func (s *FileStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
