// Package serialization selects a codec by explicit format and exposes the
// single Encode/Decode entry point over the text, compact and wire formats.
package serialization

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.CodecRegistry = (*Registry)(nil)

// Format selects a serialization format.
type Format = domain.OutputFormat

// Format selectors.
const (
	Text    = domain.OutputFormatText
	YAML    = domain.OutputFormatYAML
	Compact = domain.OutputFormatCompact
	Wire    = domain.OutputFormatWire
)

// Registry maps format selectors to codecs.
// It is safe for concurrent use after registration.
type Registry struct {
	mu     sync.RWMutex
	codecs map[Format]driven.Codec
	order  []Format
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[Format]driven.Codec)}
}

// Register adds c under c.Format(), replacing any earlier codec for it.
func (r *Registry) Register(c driven.Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := c.Format()
	if _, ok := r.codecs[f]; !ok {
		r.order = append(r.order, f)
	}
	r.codecs[f] = c
}

// Has returns true if a codec is registered for format.
func (r *Registry) Has(format Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codecs[format]
	return ok
}

// Codec implements driven.CodecRegistry.
func (r *Registry) Codec(format Format) (driven.Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, format)
	}
	return c, nil
}

// Formats implements driven.CodecRegistry.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Format(nil), r.order...)
}

// Encode serializes doc with the codec registered for format.
func (r *Registry) Encode(doc *domain.Document, format Format) ([]byte, error) {
	c, err := r.Codec(format)
	if err != nil {
		return nil, err
	}
	return c.Encode(doc)
}

// Decode parses data with the codec registered for format.
func (r *Registry) Decode(data []byte, format Format) (*domain.Document, error) {
	c, err := r.Codec(format)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}
