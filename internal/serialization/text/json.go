// Package text implements the canonical text rendering of a Document as JSON,
// the interchange-of-record, and the same schema rendered as YAML.
//
// Both encoders are deterministic: keys follow the DTO declaration order, map
// keys are sorted and floats use the shortest round-tripping form. Decoders
// reject unknown keys and accept any enumeration string; membership is the
// validator's concern.
package text

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
)

// Ensure JSONCodec implements the interface.
var _ driven.Codec = (*JSONCodec)(nil)

// JSONCodec is the canonical text codec.
type JSONCodec struct{}

// NewJSONCodec creates the canonical text codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format implements driven.Codec.
func (c *JSONCodec) Format() domain.OutputFormat {
	return domain.OutputFormatText
}

// Encode implements driven.Codec. Output is indented and ends in a newline.
func (c *JSONCodec) Encode(doc *domain.Document) ([]byte, error) {
	format := string(c.Format())
	dto, err := toDTO(format, doc)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(dto, "", "  ")
	if err != nil {
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, "", err)
	}
	return append(data, '\n'), nil
}

// Decode implements driven.Codec.
func (c *JSONCodec) Decode(data []byte) (*domain.Document, error) {
	format := string(c.Format())
	var dto documentDTO
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dto); err != nil {
		return nil, jsonDecodeError(format, data, err)
	}
	if dec.More() {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, trailingOffset(data), "",
			errors.New("trailing data after document"))
	}
	return fromDTO(format, &dto)
}

// jsonDecodeError maps a go-json failure to a CodecError with an offset or path.
func jsonDecodeError(format string, data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return domain.NewDecodeError(format, domain.ErrMalformedInput, syntaxErr.Offset, "", err)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return domain.NewDecodeError(format, domain.ErrMalformedInput, typeErr.Offset, typeErr.Field, err)
	}
	if name, ok := unknownField(err); ok {
		return domain.NewDecodeError(format, domain.ErrMalformedInput, fieldOffset(data, name), name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.NewDecodeError(format, domain.ErrMalformedInput, 0, "", err)
	}
	return domain.NewDecodeError(format, domain.ErrMalformedInput, int64(len(data)), "", err)
}

// unknownField extracts the key from a "json: unknown field" error.
func unknownField(err error) (string, bool) {
	_, rest, ok := strings.Cut(err.Error(), "unknown field ")
	if !ok {
		return "", false
	}
	return strings.Trim(rest, `"`), true
}

// fieldOffset returns the offset of the first occurrence of the quoted key, or -1.
func fieldOffset(data []byte, name string) int64 {
	return int64(bytes.Index(data, []byte(strconv.Quote(name))))
}

// trailingOffset returns the offset of the first non-space byte after the
// first top-level value.
func trailingOffset(data []byte) int64 {
	depth := 0
	inString, escaped := false, false
	for i, b := range data {
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
		case b == '"':
			inString = true
		case b == '{' || b == '[':
			depth++
		case b == '}' || b == ']':
			depth--
			if depth == 0 {
				rest := data[i+1:]
				return int64(i + 1 + len(rest) - len(bytes.TrimLeft(rest, " \t\r\n")))
			}
		}
	}
	return int64(len(data))
}
