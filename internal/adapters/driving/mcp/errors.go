// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// AGSi toolkit. It lets AI assistants validate documents and query their
// materials through tools, and read the binary format schemas as resources.
package mcp

import "errors"

var (
	// ErrMissingDocumentService is returned when the document service is not provided.
	ErrMissingDocumentService = errors.New("mcp: document service is required")

	// ErrMissingValidationService is returned when the validation service is not provided.
	ErrMissingValidationService = errors.New("mcp: validation service is required")

	// ErrNoDocument is returned when a tool call names no document source.
	ErrNoDocument = errors.New("mcp: one of content, path or catalog_id is required")
)
