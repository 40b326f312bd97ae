package mcp

import (
	"context"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/sample"
)

// mockValidationService is a mock implementation of driving.ValidationService.
type mockValidationService struct {
	result *domain.ValidationResult
}

func (m *mockValidationService) Validate(_ *domain.Document) *domain.ValidationResult {
	if m.result == nil {
		return &domain.ValidationResult{}
	}
	return m.result
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	docs    map[string]*domain.Document
	entries []domain.CatalogEntry
	err     error
}

func newMockCatalog() *mockCatalogService {
	doc := sample.Document()
	return &mockCatalogService{
		docs: map[string]*domain.Document{doc.ID: doc},
		entries: []domain.CatalogEntry{{
			ID:            doc.ID,
			Name:          doc.Name,
			SchemaVersion: doc.SchemaVersion,
			ModelCount:    len(doc.Models),
			Checksum:      "abc123",
			Size:          42,
		}},
	}
}

func (m *mockCatalogService) Put(_ context.Context, doc *domain.Document) (*domain.CatalogEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.docs[doc.ID] = doc
	return &domain.CatalogEntry{ID: doc.ID}, nil
}

func (m *mockCatalogService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockCatalogService) List(_ context.Context) ([]domain.CatalogEntry, error) {
	return m.entries, m.err
}

func (m *mockCatalogService) Delete(_ context.Context, id string) error {
	delete(m.docs, id)
	return m.err
}

// Ensure mocks implement the interfaces.
var (
	_ driving.ValidationService = (*mockValidationService)(nil)
	_ driving.CatalogService    = (*mockCatalogService)(nil)
)
