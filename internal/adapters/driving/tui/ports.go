// Package tui provides a read-only terminal browser for AGSi documents.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Document loads and inspects documents.
	Document driving.DocumentService

	// Validation produces the report shown in the issues view.
	Validation driving.ValidationService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(document driving.DocumentService, validation driving.ValidationService) *Ports {
	return &Ports{
		Document:   document,
		Validation: validation,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Validation == nil {
		return ErrMissingValidationService
	}
	return nil
}
