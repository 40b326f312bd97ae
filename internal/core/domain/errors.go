package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates an unknown serialization format selector.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Serialization Errors.

	// ErrMalformedInput indicates text or binary input that cannot be parsed at all.
	ErrMalformedInput = errors.New("malformed input")

	// ErrSchemaMismatch indicates a value the target format cannot represent.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnsupportedField indicates a populated field the target format has no slot for.
	ErrUnsupportedField = errors.New("unsupported field")

	// Validation Errors.

	// ErrReferentialViolation indicates a dangling or duplicated identifier.
	ErrReferentialViolation = errors.New("referential violation")

	// ErrStructuralViolation indicates a missing or out-of-domain required field.
	ErrStructuralViolation = errors.New("structural violation")

	// ErrUnrecognizedSchemaVersion indicates a schema major version this engine does not know.
	ErrUnrecognizedSchemaVersion = errors.New("unrecognized schema version")

	// Geometry Errors.

	// ErrUnsupportedGeometryKind indicates an operation the geometry kind has no form for.
	ErrUnsupportedGeometryKind = errors.New("unsupported geometry kind")

	// ErrMalformedGeometryText indicates geometry text that cannot be parsed.
	ErrMalformedGeometryText = errors.New("malformed geometry text")

	// ErrEmptyGeometry indicates a geometry with no coordinates where one is required.
	ErrEmptyGeometry = errors.New("empty geometry")

	// ErrGeometryPayloadSizeMismatch indicates a surface payload grossly inconsistent
	// with its declared vertex and face counts.
	ErrGeometryPayloadSizeMismatch = errors.New("geometry payload size mismatch")
)

// CodecError describes an encode or decode failure in one serialization format.
// It unwraps to both the kind sentinel and the underlying cause.
type CodecError struct {
	// Format is the serialization format name.
	Format string

	// Op is "encode" or "decode".
	Op string

	// Path is the field path where the failure occurred, if known.
	Path string

	// Offset is the byte offset where decoding failed, or -1.
	Offset int64

	// Kind is one of the sentinel errors above.
	Kind error

	// Err is the underlying cause, may be nil.
	Err error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %v", e.Format, e.Op, e.Kind)
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the kind sentinel and the cause.
func (e *CodecError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewEncodeError builds an encode failure for a field path.
func NewEncodeError(format string, kind error, path string, cause error) *CodecError {
	return &CodecError{Format: format, Op: "encode", Path: path, Offset: -1, Kind: kind, Err: cause}
}

// NewDecodeError builds a decode failure at a byte offset. Path may be empty.
func NewDecodeError(format string, kind error, offset int64, path string, cause error) *CodecError {
	return &CodecError{Format: format, Op: "decode", Path: path, Offset: offset, Kind: kind, Err: cause}
}
