package driven

import "github.com/custodia-labs/agsi-cli/internal/core/domain"

// Codec converts a Document to and from one serialization format.
// Implementations are pure functions of their input and safe for concurrent use.
type Codec interface {
	// Format returns the selector this codec serves.
	Format() domain.OutputFormat

	// Encode serializes doc. Failures are *domain.CodecError values.
	Encode(doc *domain.Document) ([]byte, error)

	// Decode parses data into a new Document. Failures are *domain.CodecError
	// values naming the byte offset or field path.
	Decode(data []byte) (*domain.Document, error)
}

// CodecRegistry selects codecs by explicit format selector.
// It never guesses a format from content.
type CodecRegistry interface {
	// Codec returns the codec for format, or domain.ErrUnsupportedFormat.
	Codec(format domain.OutputFormat) (Codec, error)

	// Formats returns the registered formats in registration order.
	Formats() []domain.OutputFormat
}

// GeometryCodec encodes geometry payloads to text and binary forms.
type GeometryCodec interface {
	// EncodeText renders a point, line or polygon as text.
	// Surfaces fail with domain.ErrUnsupportedGeometryKind.
	EncodeText(g domain.Geometry) (string, error)

	// DecodeText parses geometry text.
	DecodeText(text string) (domain.Geometry, error)

	// EncodeBinary renders any geometry as a binary payload.
	EncodeBinary(g domain.Geometry) ([]byte, error)

	// DecodeBinary parses a binary payload of a point, line or polygon.
	DecodeBinary(data []byte) (domain.Geometry, error)

	// CheckSurface compares a surface's payload size against its declared counts.
	CheckSurface(s *domain.Surface) error

	// CheckEmbedded decodes the embedded text and binary encodings of g.
	// It fails when one is malformed or of another kind, and reports whether
	// both describe the coordinates of g.
	CheckEmbedded(g domain.Geometry) (consistent bool, err error)
}
