package text

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
)

// Ensure YAMLCodec implements the interface.
var _ driven.Codec = (*YAMLCodec)(nil)

// YAMLCodec renders the canonical schema as YAML.
type YAMLCodec struct{}

// NewYAMLCodec creates the YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format implements driven.Codec.
func (c *YAMLCodec) Format() domain.OutputFormat {
	return domain.OutputFormatYAML
}

// Encode implements driven.Codec.
func (c *YAMLCodec) Encode(doc *domain.Document) ([]byte, error) {
	format := string(c.Format())
	dto, err := toDTO(format, doc)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := node.Encode(dto); err != nil {
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, "", err)
	}
	signedZeros(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, "", err)
	}
	if err := enc.Close(); err != nil {
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, "", err)
	}
	return buf.Bytes(), nil
}

// Decode implements driven.Codec. Only the first YAML document is read;
// a second one is rejected.
func (c *YAMLCodec) Decode(data []byte) (*domain.Document, error) {
	format := string(c.Format())
	var dto documentDTO
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&dto); err != nil {
		return nil, yamlDecodeError(format, data, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, secondDocumentOffset(data), "",
			errors.New("more than one YAML document"))
	}
	return fromDTO(format, &dto)
}

// signedZeros rewrites plain "-0" scalars as "-0.0". yaml.v3 prints a
// negative zero float as "-0", which resolves to the integer 0 on decode.
// Integer fields never print "-0" and strings that look like numbers are
// quoted, so every plain "-0" is a float.
func signedZeros(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Style == 0 && n.Value == "-0" {
		n.Value = "-0.0"
		n.Tag = "!!float"
		return
	}
	for _, c := range n.Content {
		signedZeros(c)
	}
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// yamlDecodeError maps a yaml.v3 failure to a CodecError. yaml.v3 reports
// lines, which are converted to the byte offset of the line start.
func yamlDecodeError(format string, data []byte, err error) error {
	if errors.Is(err, io.EOF) {
		return domain.NewDecodeError(format, domain.ErrMalformedInput, 0, "", errors.New("empty input"))
	}
	msg := err.Error()
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		msg = typeErr.Errors[0]
	}
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil {
			return domain.NewDecodeError(format, domain.ErrMalformedInput, lineOffset(data, line), "", err)
		}
	}
	return domain.NewDecodeError(format, domain.ErrMalformedInput, 0, "", err)
}

// lineOffset returns the byte offset of the start of the 1-based line.
func lineOffset(data []byte, line int) int64 {
	if line <= 1 {
		return 0
	}
	seen := 1
	for i, b := range data {
		if b == '\n' {
			seen++
			if seen == line {
				return int64(i + 1)
			}
		}
	}
	return int64(len(data))
}

// secondDocumentOffset returns the offset of the second "---" separator line.
func secondDocumentOffset(data []byte) int64 {
	offset := 0
	separators := 0
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("---")) {
			separators++
			if separators == 2 || offset > 0 {
				return int64(offset)
			}
		}
		offset += len(line)
	}
	return int64(len(data))
}
