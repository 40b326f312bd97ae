package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for AGSi resources.
	uriScheme = "agsi://"

	schemaPrefix  = uriScheme + "schema/"
	catalogURI    = uriScheme + "catalog"
	catalogPrefix = catalogURI + "/"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Schema != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         schemaPrefix + string(domain.OutputFormatCompact),
			Name:        "schema-compact",
			Description: "Avro schema of the compact binary format",
			MIMEType:    "application/json",
		}, s.handleSchemaResource)

		s.server.AddResource(&mcp.Resource{
			URI:         schemaPrefix + string(domain.OutputFormatWire),
			Name:        "schema-wire",
			Description: "Protocol Buffers schema of the wire binary format",
			MIMEType:    "text/plain",
		}, s.handleSchemaResource)
	}

	if s.ports.Catalog != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         catalogURI,
			Name:        "catalog",
			Description: "Documents stored in the local catalog",
			MIMEType:    "application/json",
		}, s.handleCatalogResource)

		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: catalogPrefix + "{id}",
			Name:        "catalog-document",
			Description: "A stored document in the canonical text format",
			MIMEType:    "application/json",
		}, s.handleCatalogDocumentResource)
	}
}

// handleSchemaResource returns the schema artifact named by the URI.
func (s *Server) handleSchemaResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	format, ok := strings.CutPrefix(req.Params.URI, schemaPrefix)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	text, err := s.ports.Schema(domain.OutputFormat(format))
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	mime := "text/plain"
	if domain.OutputFormat(format) == domain.OutputFormatCompact {
		mime = "application/json"
	}
	return textResult(req.Params.URI, mime, text), nil
}

// catalogEntry is the JSON shape of one catalog listing row.
type catalogEntry struct {
	ID            string    `json:"id"`
	URI           string    `json:"uri"`
	Name          string    `json:"name,omitempty"`
	Author        string    `json:"author,omitempty"`
	SchemaVersion string    `json:"schema_version"`
	Models        int       `json:"models"`
	Materials     int       `json:"materials"`
	Checksum      string    `json:"checksum"`
	Size          int       `json:"size"`
	StoredAt      time.Time `json:"stored_at"`
}

// handleCatalogResource lists the catalog.
func (s *Server) handleCatalogResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	entries, err := s.ports.Catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}

	rows := make([]catalogEntry, len(entries))
	for i, e := range entries {
		rows[i] = catalogEntry{
			ID:            e.ID,
			URI:           catalogPrefix + e.ID,
			Name:          e.Name,
			Author:        e.Author,
			SchemaVersion: e.SchemaVersion.String(),
			Models:        e.ModelCount,
			Materials:     e.MaterialCount,
			Checksum:      e.Checksum,
			Size:          e.Size,
			StoredAt:      e.StoredAt,
		}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling catalog: %w", err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

// handleCatalogDocumentResource returns one stored document as canonical text.
func (s *Server) handleCatalogDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractCatalogID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}

	data, err := s.ports.Document.Encode(doc, domain.OutputFormatText)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", id, err)
	}
	return textResult(req.Params.URI, "application/json", string(data)), nil
}

// extractCatalogID returns the id of agsi://catalog/{id}, or "".
func extractCatalogID(uri string) string {
	id, ok := strings.CutPrefix(uri, catalogPrefix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}

func textResult(uri, mime, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: mime,
			Text:     text,
		}},
	}
}
