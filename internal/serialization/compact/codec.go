// Package compact implements the schema-typed compact binary format.
//
// A payload is a 10-byte header followed by one Avro binary datum of the
// embedded agsi.avsc schema. The header is the magic 0xC3 0x01 and the first
// eight bytes of the schema's SHA-256 fingerprint, so a payload written
// against another schema revision is rejected instead of misread.
package compact

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hamba/avro/v2"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
	"github.com/custodia-labs/agsi-cli/internal/serialization/schema"
)

// Ensure Codec implements the interface.
var _ driven.Codec = (*Codec)(nil)

//go:embed agsi.avsc
var schemaText string

// HeaderSize is the length of the payload header.
const HeaderSize = 10

// Magic starts every payload.
var Magic = [2]byte{0xC3, 0x01}

var parsedSchema = sync.OnceValues(func() (avro.Schema, error) {
	return avro.Parse(schemaText)
})

// Schema returns the parsed Avro schema. It is parsed once on first use.
func Schema() (avro.Schema, error) {
	return parsedSchema()
}

// SchemaText returns the embedded schema description.
func SchemaText() string {
	return schemaText
}

// Header returns the payload header of the embedded schema.
func Header() ([]byte, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}
	fp := s.Fingerprint()
	h := make([]byte, 0, HeaderSize)
	h = append(h, Magic[:]...)
	return append(h, fp[:HeaderSize-len(Magic)]...), nil
}

// Codec is the compact binary codec.
type Codec struct{}

// New creates the compact binary codec.
func New() *Codec {
	return &Codec{}
}

// Format implements driven.Codec.
func (c *Codec) Format() domain.OutputFormat {
	return domain.OutputFormatCompact
}

// Encode implements driven.Codec. It fails closed: enumeration values outside
// the schema are a domain.ErrSchemaMismatch, populated pending fields are a
// domain.ErrUnsupportedField.
func (c *Codec) Encode(doc *domain.Document) ([]byte, error) {
	format := string(c.Format())
	if err := schema.CheckEnums(doc, c.Format()); err != nil {
		return nil, err
	}
	if err := schema.CheckPending(doc, c.Format()); err != nil {
		return nil, err
	}
	if err := schema.CheckTimestamps(doc, c.Format()); err != nil {
		return nil, err
	}
	s, err := Schema()
	if err != nil {
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, "", err)
	}
	header, err := Header()
	if err != nil {
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, "", err)
	}

	rec := toRecord(doc)
	datum, err := avro.Marshal(s, rec)
	if err != nil {
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, "", err)
	}
	return append(header, datum...), nil
}

// Decode implements driven.Codec.
func (c *Codec) Decode(data []byte) (*domain.Document, error) {
	format := string(c.Format())
	s, err := Schema()
	if err != nil {
		return nil, domain.NewDecodeError(format, domain.ErrSchemaMismatch, 0, "", err)
	}
	header, err := Header()
	if err != nil {
		return nil, domain.NewDecodeError(format, domain.ErrSchemaMismatch, 0, "", err)
	}

	if len(data) < HeaderSize {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, int64(len(data)), "",
			fmt.Errorf("payload shorter than the %d-byte header", HeaderSize))
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, 0, "",
			fmt.Errorf("bad magic % x", data[:len(Magic)]))
	}
	if !bytes.Equal(data[len(Magic):HeaderSize], header[len(Magic):]) {
		return nil, domain.NewDecodeError(format, domain.ErrSchemaMismatch, int64(len(Magic)), "",
			fmt.Errorf("schema fingerprint % x does not match % x", data[len(Magic):HeaderSize], header[len(Magic):]))
	}

	datum := data[HeaderSize:]
	var rec documentRecord
	r := avro.NewReader(nil, 0).Reset(datum)
	r.ReadVal(s, &rec)
	if r.Error != nil && !errors.Is(r.Error, io.EOF) {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, HeaderSize, "", r.Error)
	}
	if left := remaining(r); left > 0 {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, int64(len(data)-left), "",
			fmt.Errorf("%d trailing bytes after document", left))
	}

	return fromRecord(format, &rec)
}

// remaining drains r and returns how many unread bytes it held.
func remaining(r *avro.Reader) int {
	n := 0
	for r.Error == nil {
		r.Peek()
		if r.Error != nil {
			break
		}
		r.SkipNBytes(1)
		n++
	}
	return n
}
