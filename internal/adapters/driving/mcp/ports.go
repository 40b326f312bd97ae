package mcp

import (
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
)

// SchemaFunc returns the published schema text of a binary format.
type SchemaFunc func(format domain.OutputFormat) (string, error)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Document decodes and inspects documents.
	Document driving.DocumentService

	// Validation runs the validator.
	Validation driving.ValidationService

	// Catalog is optional. When set, tools accept catalog_id and the
	// catalog resources are registered.
	Catalog driving.CatalogService

	// Schema is optional. When set, the schema resources are registered.
	Schema SchemaFunc
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Validation == nil {
		return ErrMissingValidationService
	}
	return nil
}
