package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// DocumentService is the boundary the front ends use to construct, load,
// save, inspect and convert documents.
type DocumentService interface {
	// Create builds a new document. An empty ID is replaced by a generated one.
	Create(opts CreateOptions) *domain.Document

	// Decode parses data in an explicit format.
	Decode(data []byte, format domain.OutputFormat) (*domain.Document, error)

	// Encode serializes doc in an explicit format.
	Encode(doc *domain.Document, format domain.OutputFormat) ([]byte, error)

	// Load reads and decodes a file.
	Load(ctx context.Context, path string, format domain.OutputFormat) (*domain.Document, error)

	// Save encodes and writes a file.
	Save(ctx context.Context, doc *domain.Document, path string, format domain.OutputFormat) error

	// Convert re-encodes data through the in-memory document.
	Convert(data []byte, from, to domain.OutputFormat) ([]byte, error)

	// ExtractMaterials projects the materials in scope of modelID; empty means all.
	ExtractMaterials(doc *domain.Document, modelID string) ([]*domain.Material, error)

	// QueryMaterials filters extracted materials.
	QueryMaterials(doc *domain.Document, q MaterialQuery) ([]*domain.Material, error)

	// Info summarises document metadata.
	Info(doc *domain.Document) DocumentInfo

	// Stats counts entities by kind.
	Stats(doc *domain.Document) DocumentStats

	// Diff reports structural differences between two documents.
	Diff(a, b *domain.Document) (*DiffReport, error)
}

// ValidationService runs the three-tier validator.
type ValidationService interface {
	// Validate checks doc without mutating it and returns the complete report.
	Validate(doc *domain.Document) *domain.ValidationResult
}

// CreateOptions configures a new document.
type CreateOptions struct {
	ID       string
	Name     string
	Author   string
	Software string
	Project  *domain.Project
}

// MaterialQuery filters materials. Zero-valued fields match everything.
type MaterialQuery struct {
	// ModelID restricts the scope to one model.
	ModelID string

	// Kind restricts to one material kind.
	Kind domain.MaterialKind

	// Parameter restricts to materials carrying this parameter code.
	Parameter string

	// NameContains is a case-insensitive substring of the material name.
	NameContains string
}

// DocumentInfo provides a flat view of document metadata for display.
type DocumentInfo struct {
	ID            string
	Name          string
	Author        string
	Software      string
	FileVersion   string
	SchemaVersion string
	CreatedAt     *time.Time
	ModifiedAt    *time.Time
	ProjectName   string
	Client        string
	ModelIDs      []string
}

// DocumentStats counts entities in a document.
type DocumentStats struct {
	Models     int
	Materials  int
	Components int
	Properties int

	// MaterialsByKind counts every material in scope by kind.
	MaterialsByKind map[domain.MaterialKind]int

	// ComponentsByKind counts components by kind.
	ComponentsByKind map[domain.ComponentKind]int

	// GeometryByKind counts component geometries by kind.
	GeometryByKind map[domain.GeometryKind]int

	// PropertiesPerMaterial maps material ID to its property count.
	PropertiesPerMaterial map[string]int
}

// ChangeType classifies one difference.
type ChangeType string

// Available change types.
const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// Change is one structural difference between two documents.
type Change struct {
	Type ChangeType

	// Path locates the entity, e.g. "models[GM1].components[C2]".
	Path string

	// Field is the changed attribute for modifications.
	Field string

	Old string
	New string
}

// DiffReport is the result of comparing two documents.
type DiffReport struct {
	// Identical is true when the canonical text encodings are byte-identical.
	Identical bool

	Changes []Change
}
