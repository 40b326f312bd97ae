package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService stores validated documents as canonical text.
type CatalogService struct {
	store     driven.DocumentStore
	codecs    driven.CodecRegistry
	validator driving.ValidationService
	now       func() time.Time
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	store driven.DocumentStore,
	codecs driven.CodecRegistry,
	validator driving.ValidationService,
) *CatalogService {
	return &CatalogService{
		store:     store,
		codecs:    codecs,
		validator: validator,
		now:       time.Now,
	}
}

// Put validates and stores doc. Documents with validation errors are rejected;
// warnings do not block storage.
func (s *CatalogService) Put(ctx context.Context, doc *domain.Document) (*domain.CatalogEntry, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}
	if _, err := ValidateOrErr(s.validator, doc, false); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", doc.ID, err)
	}

	codec, err := s.codecs.Codec(domain.OutputFormatText)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Encode(doc)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", doc.ID, err)
	}

	sum := sha256.Sum256(payload)
	entry := domain.CatalogEntry{
		ID:            doc.ID,
		Name:          doc.Name,
		Author:        doc.Author,
		SchemaVersion: doc.SchemaVersion,
		ModelCount:    len(doc.Models),
		MaterialCount: len(doc.Materials),
		Checksum:      hex.EncodeToString(sum[:]),
		Size:          len(payload),
		StoredAt:      s.now().UTC(),
	}
	for _, m := range doc.Models {
		entry.MaterialCount += len(m.Materials)
	}

	if err := s.store.Put(ctx, entry, payload); err != nil {
		return nil, fmt.Errorf("store %s: %w", doc.ID, err)
	}
	logger.Info("catalogued %s (%d bytes, sha256 %s)", entry.ID, entry.Size, entry.Checksum[:12])
	return &entry, nil
}

// Get loads a stored document, checking the payload against its checksum.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Document, error) {
	entry, payload, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", id, err)
	}

	sum := sha256.Sum256(payload)
	if got := hex.EncodeToString(sum[:]); got != entry.Checksum {
		return nil, fmt.Errorf("catalog %s: %w: checksum %s does not match stored %s",
			id, domain.ErrMalformedInput, got, entry.Checksum)
	}

	codec, err := s.codecs.Codec(domain.OutputFormatText)
	if err != nil {
		return nil, err
	}
	doc, err := codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", id, err)
	}
	return doc, nil
}

// List returns all catalog entries.
func (s *CatalogService) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	return s.store.List(ctx)
}

// Delete removes a stored document.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("catalog %s: %w", id, err)
	}
	logger.Debug("removed %s from catalog", id)
	return nil
}
