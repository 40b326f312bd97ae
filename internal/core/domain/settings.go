package domain

const unknownDescription = "Unknown"

// OutputFormat names a serialization format in settings.
// It mirrors the serialization selector without importing it.
type OutputFormat string

// Available output formats.
const (
	// OutputFormatText is the canonical JSON text format.
	OutputFormatText OutputFormat = "text"

	// OutputFormatYAML is the YAML rendering of the canonical schema.
	OutputFormatYAML OutputFormat = "yaml"

	// OutputFormatCompact is the schema-typed compact binary format.
	OutputFormatCompact OutputFormat = "compact"

	// OutputFormatWire is the self-describing wire format.
	OutputFormatWire OutputFormat = "wire"
)

// IsValid returns true if the output format is recognised.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatYAML, OutputFormatCompact, OutputFormatWire:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// Description returns a human-readable description of the format.
func (f OutputFormat) Description() string {
	switch f {
	case OutputFormatText:
		return "Canonical text (JSON)"
	case OutputFormatYAML:
		return "Canonical text (YAML)"
	case OutputFormatCompact:
		return "Compact binary (Avro)"
	case OutputFormatWire:
		return "Wire binary (Protocol Buffers)"
	default:
		return unknownDescription
	}
}

// AllOutputFormats returns all available output formats.
func AllOutputFormats() []OutputFormat {
	return []OutputFormat{
		OutputFormatText,
		OutputFormatYAML,
		OutputFormatCompact,
		OutputFormatWire,
	}
}

// OutputSettings holds conversion defaults.
type OutputSettings struct {
	// Format is the default target format of convert.
	Format OutputFormat
}

// DocumentSettings holds defaults applied to new documents.
type DocumentSettings struct {
	// Author is written into new documents.
	Author string

	// Software is written into new documents.
	Software string
}

// ValidationSettings holds validation behaviour.
type ValidationSettings struct {
	// Strict treats warnings as failures for exit status.
	Strict bool
}

// LogSettings holds logging behaviour.
type LogSettings struct {
	Verbose bool
}

// CatalogSettings holds document catalog configuration.
type CatalogSettings struct {
	// Dir is the directory of the catalog database. Empty means the default.
	Dir string
}

// Settings holds all application settings.
type Settings struct {
	Output     OutputSettings
	Document   DocumentSettings
	Validation ValidationSettings
	Log        LogSettings
	Catalog    CatalogSettings
}

// DefaultSoftware is the tool name written by create when no software is configured.
const DefaultSoftware = "agsi-cli"

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Output: OutputSettings{
			Format: OutputFormatText,
		},
		Document: DocumentSettings{
			Software: DefaultSoftware,
		},
	}
}
