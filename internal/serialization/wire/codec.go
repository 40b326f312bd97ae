// Package wire implements the self-describing wire format: a bare
// Protocol Buffers agsi.v1.Document message. The schema is distributed
// separately as agsi.proto and is not embedded in payloads.
package wire

import (
	_ "embed"
	"errors"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
	"github.com/custodia-labs/agsi-cli/internal/serialization/schema"
)

// Ensure Codec implements the interface.
var _ driven.Codec = (*Codec)(nil)

//go:embed agsi.proto
var protoText string

// ProtoText returns the distributed schema.
func ProtoText() string {
	return protoText
}

// Codec is the wire format codec.
type Codec struct{}

// New creates the wire format codec.
func New() *Codec {
	return &Codec{}
}

// Format implements driven.Codec.
func (c *Codec) Format() domain.OutputFormat {
	return domain.OutputFormatWire
}

// Encode implements driven.Codec. Enumeration values outside the schema
// fail with domain.ErrSchemaMismatch and populated pending fields with
// domain.ErrUnsupportedField.
func (c *Codec) Encode(doc *domain.Document) ([]byte, error) {
	if err := schema.CheckEnums(doc, c.Format()); err != nil {
		return nil, err
	}
	if err := schema.CheckPending(doc, c.Format()); err != nil {
		return nil, err
	}
	if err := schema.CheckTimestamps(doc, c.Format()); err != nil {
		return nil, err
	}
	return appendDocument(nil, doc), nil
}

// Decode implements driven.Codec. Group wire types and truncated values are
// a domain.ErrMalformedInput; unknown field or enum numbers are a
// domain.ErrSchemaMismatch. Offsets are absolute within data.
func (c *Codec) Decode(data []byte) (*domain.Document, error) {
	d := &decoder{format: string(c.Format())}
	if len(data) == 0 {
		return nil, d.malformed(0, "", errors.New("empty payload"))
	}
	return d.document(message{data: data})
}
