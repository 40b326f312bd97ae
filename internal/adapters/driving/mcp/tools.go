package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

// DocumentInput names the document a tool works on. Exactly one source is
// used, in the order catalog_id, path, content. It is also the input schema
// of the info tool.
type DocumentInput struct {
	Content   string `json:"content,omitempty" jsonschema:"document text in the canonical JSON or YAML format"`
	Path      string `json:"path,omitempty" jsonschema:"path of a document file on the server host"`
	CatalogID string `json:"catalog_id,omitempty" jsonschema:"identifier of a document in the local catalog"`
	Format    string `json:"format,omitempty" jsonschema:"format of content or path: text, yaml, compact or wire"`
}

// ValidateInput is the input schema for the validate tool.
type ValidateInput struct {
	Content   string `json:"content,omitempty" jsonschema:"document text in the canonical JSON or YAML format"`
	Path      string `json:"path,omitempty" jsonschema:"path of a document file on the server host"`
	CatalogID string `json:"catalog_id,omitempty" jsonschema:"identifier of a document in the local catalog"`
	Format    string `json:"format,omitempty" jsonschema:"format of content or path: text, yaml, compact or wire"`
	Strict    bool   `json:"strict,omitempty" jsonschema:"treat warnings as failures"`
}

// IssueOutput is one validation finding.
type IssueOutput struct {
	Tier     string `json:"tier"`
	Kind     string `json:"kind"`
	Code     string `json:"code"`
	Path     string `json:"path"`
	EntityID string `json:"entity_id,omitempty"`
	Message  string `json:"message"`
}

// ValidateOutput is the output schema for the validate tool.
type ValidateOutput struct {
	Valid    bool          `json:"valid"`
	Passed   bool          `json:"passed"`
	Errors   []IssueOutput `json:"errors"`
	Warnings []IssueOutput `json:"warnings"`
}

// ExtractInput is the input schema for the extract tool.
type ExtractInput struct {
	Content   string `json:"content,omitempty" jsonschema:"document text in the canonical JSON or YAML format"`
	Path      string `json:"path,omitempty" jsonschema:"path of a document file on the server host"`
	CatalogID string `json:"catalog_id,omitempty" jsonschema:"identifier of a document in the local catalog"`
	Format    string `json:"format,omitempty" jsonschema:"format of content or path: text, yaml, compact or wire"`
	ModelID   string `json:"model_id,omitempty" jsonschema:"restrict to materials in scope of this model"`
}

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Content      string `json:"content,omitempty" jsonschema:"document text in the canonical JSON or YAML format"`
	Path         string `json:"path,omitempty" jsonschema:"path of a document file on the server host"`
	CatalogID    string `json:"catalog_id,omitempty" jsonschema:"identifier of a document in the local catalog"`
	Format       string `json:"format,omitempty" jsonschema:"format of content or path: text, yaml, compact or wire"`
	ModelID      string `json:"model_id,omitempty" jsonschema:"restrict to materials in scope of this model"`
	Kind         string `json:"kind,omitempty" jsonschema:"material kind, e.g. SOIL or ROCK"`
	Parameter    string `json:"parameter,omitempty" jsonschema:"parameter code the material must carry, e.g. UndrainedShearStrength"`
	NameContains string `json:"name_contains,omitempty" jsonschema:"case-insensitive substring of the material name"`
}

// PropertyOutput is one material property.
type PropertyOutput struct {
	Code    string `json:"code"`
	Value   string `json:"value"`
	Unit    string `json:"unit,omitempty"`
	Source  string `json:"source,omitempty"`
	Method  string `json:"method,omitempty"`
	Case    string `json:"case,omitempty"`
	Remarks string `json:"remarks,omitempty"`
}

// MaterialOutput is one material.
type MaterialOutput struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Kind        string           `json:"kind"`
	Description string           `json:"description,omitempty"`
	Geology     string           `json:"geology,omitempty"`
	Properties  []PropertyOutput `json:"properties"`
}

// MaterialsOutput is the output schema for the extract and query tools.
type MaterialsOutput struct {
	Materials []MaterialOutput `json:"materials"`
	Count     int              `json:"count"`
}

// InfoOutput is the output schema for the info tool.
type InfoOutput struct {
	ID            string         `json:"id"`
	Name          string         `json:"name,omitempty"`
	Author        string         `json:"author,omitempty"`
	Software      string         `json:"software,omitempty"`
	SchemaVersion string         `json:"schema_version"`
	Project       string         `json:"project,omitempty"`
	Client        string         `json:"client,omitempty"`
	Models        []string       `json:"models"`
	Counts        map[string]int `json:"counts"`
}

func (in ValidateInput) source() DocumentInput {
	return DocumentInput{Content: in.Content, Path: in.Path, CatalogID: in.CatalogID, Format: in.Format}
}

func (in ExtractInput) source() DocumentInput {
	return DocumentInput{Content: in.Content, Path: in.Path, CatalogID: in.CatalogID, Format: in.Format}
}

func (in QueryInput) source() DocumentInput {
	return DocumentInput{Content: in.Content, Path: in.Path, CatalogID: in.CatalogID, Format: in.Format}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "agsi_validate",
		Description: "Validate an AGSi ground-model document and report errors and warnings",
	}, s.handleValidate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "agsi_extract_materials",
		Description: "List the materials of a document, optionally scoped to one model",
	}, s.handleExtractMaterials)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "agsi_get_info",
		Description: "Summarise document metadata and entity counts",
	}, s.handleGetInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "agsi_query_materials",
		Description: "Filter materials by kind, parameter code or name",
	}, s.handleQueryMaterials)
}

// load resolves the document named by in.
func (s *Server) load(ctx context.Context, in DocumentInput) (*domain.Document, error) {
	switch {
	case in.CatalogID != "":
		if s.ports.Catalog == nil {
			return nil, fmt.Errorf("mcp: no catalog configured for catalog_id %q", in.CatalogID)
		}
		return s.ports.Catalog.Get(ctx, in.CatalogID)
	case in.Path != "":
		format, err := serialization.ResolveFormat(in.Format, in.Path)
		if err != nil {
			return nil, err
		}
		return s.ports.Document.Load(ctx, in.Path, format)
	case in.Content != "":
		format := domain.OutputFormatText
		if in.Format != "" {
			f, err := serialization.ParseFormat(in.Format)
			if err != nil {
				return nil, err
			}
			format = f
		}
		return s.ports.Document.Decode([]byte(in.Content), format)
	default:
		return nil, ErrNoDocument
	}
}

// handleValidate handles the validate tool invocation. A document that
// cannot be decoded is reported as a tool error.
func (s *Server) handleValidate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	doc, err := s.load(ctx, input.source())
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	result := s.ports.Validation.Validate(doc)
	output := ValidateOutput{
		Valid:    result.IsValid(),
		Errors:   issues(result.Errors),
		Warnings: issues(result.Warnings),
	}
	output.Passed = output.Valid && (!input.Strict || len(result.Warnings) == 0)
	return nil, output, nil
}

// handleExtractMaterials handles the extract tool invocation.
func (s *Server) handleExtractMaterials(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, MaterialsOutput, error) {
	doc, err := s.load(ctx, input.source())
	if err != nil {
		return nil, MaterialsOutput{}, err
	}

	materials, err := s.ports.Document.ExtractMaterials(doc, input.ModelID)
	if err != nil {
		return nil, MaterialsOutput{}, err
	}
	return nil, materialsOutput(materials), nil
}

// handleGetInfo handles the info tool invocation.
func (s *Server) handleGetInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, InfoOutput, error) {
	doc, err := s.load(ctx, input)
	if err != nil {
		return nil, InfoOutput{}, err
	}

	info := s.ports.Document.Info(doc)
	stats := s.ports.Document.Stats(doc)
	models := info.ModelIDs
	if models == nil {
		models = []string{}
	}
	return nil, InfoOutput{
		ID:            info.ID,
		Name:          info.Name,
		Author:        info.Author,
		Software:      info.Software,
		SchemaVersion: info.SchemaVersion,
		Project:       info.ProjectName,
		Client:        info.Client,
		Models:        models,
		Counts: map[string]int{
			"models":     stats.Models,
			"materials":  stats.Materials,
			"components": stats.Components,
			"properties": stats.Properties,
		},
	}, nil
}

// handleQueryMaterials handles the query tool invocation.
func (s *Server) handleQueryMaterials(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, MaterialsOutput, error) {
	doc, err := s.load(ctx, input.source())
	if err != nil {
		return nil, MaterialsOutput{}, err
	}

	materials, err := s.ports.Document.QueryMaterials(doc, driving.MaterialQuery{
		ModelID:      input.ModelID,
		Kind:         domain.MaterialKind(input.Kind),
		Parameter:    input.Parameter,
		NameContains: input.NameContains,
	})
	if err != nil {
		return nil, MaterialsOutput{}, err
	}
	return nil, materialsOutput(materials), nil
}

func issues(in []domain.Issue) []IssueOutput {
	out := make([]IssueOutput, len(in))
	for i, issue := range in {
		out[i] = IssueOutput{
			Tier:     string(issue.Tier),
			Kind:     issue.Kind.String(),
			Code:     issue.Code,
			Path:     issue.Path,
			EntityID: issue.EntityID,
			Message:  issue.Message,
		}
	}
	return out
}

func materialsOutput(materials []*domain.Material) MaterialsOutput {
	out := MaterialsOutput{
		Materials: make([]MaterialOutput, len(materials)),
		Count:     len(materials),
	}
	for i, m := range materials {
		props := make([]PropertyOutput, len(m.Properties))
		for j, p := range m.Properties {
			value := ""
			if p.Value != nil {
				value = p.Value.String()
			}
			props[j] = PropertyOutput{
				Code:    p.Code.String(),
				Value:   value,
				Unit:    p.EffectiveUnit(),
				Source:  p.Source.String(),
				Method:  p.Method,
				Case:    p.CaseID,
				Remarks: p.Remarks,
			}
		}
		out.Materials[i] = MaterialOutput{
			ID:          m.ID,
			Name:        m.Name,
			Kind:        m.Kind.String(),
			Description: m.Description,
			Geology:     m.Geology,
			Properties:  props,
		}
	}
	return out
}
