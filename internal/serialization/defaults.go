package serialization

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/serialization/compact"
	"github.com/custodia-labs/agsi-cli/internal/serialization/text"
	"github.com/custodia-labs/agsi-cli/internal/serialization/wire"
)

// RegisterDefaults registers every built-in codec with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(text.NewJSONCodec())
	r.Register(text.NewYAMLCodec())
	r.Register(compact.New())
	r.Register(wire.New())
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
})

// Default returns the process-wide registry holding the built-in codecs.
func Default() *Registry {
	return defaultRegistry()
}

// Encode serializes doc to format with the built-in codecs.
func Encode(doc *domain.Document, format Format) ([]byte, error) {
	return Default().Encode(doc, format)
}

// Decode parses data as format with the built-in codecs.
func Decode(data []byte, format Format) (*domain.Document, error) {
	return Default().Decode(data, format)
}

// ParseFormat returns the selector named s.
// Returns domain.ErrUnsupportedFormat for unknown names.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s)
	}
	return f, nil
}

// IsBinary returns true for formats whose payloads are not text.
func IsBinary(f Format) bool {
	return f == Compact || f == Wire
}

// Schema returns the published schema artifact of a binary format.
func Schema(f Format) (string, error) {
	switch f {
	case Compact:
		return compact.SchemaText(), nil
	case Wire:
		return wire.ProtoText(), nil
	default:
		return "", fmt.Errorf("%w: %q has no schema artifact", domain.ErrUnsupportedFormat, f)
	}
}

// extensions maps file name suffixes to formats. Longer suffixes come first.
var extensions = []struct {
	suffix string
	format Format
}{
	{".agsi.json", Text},
	{".agsi.yaml", YAML},
	{".agsi.yml", YAML},
	{".json", Text},
	{".yaml", YAML},
	{".yml", YAML},
	{".avro", Compact},
	{".agsc", Compact},
	{".binpb", Wire},
	{".pb", Wire},
	{".agsw", Wire},
}

// FormatForPath infers a format from the file name of path.
func FormatForPath(path string) (Format, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, e := range extensions {
		if strings.HasSuffix(name, e.suffix) {
			return e.format, true
		}
	}
	return "", false
}

// ResolveFormat returns the explicit selector when set, otherwise the
// format inferred from path.
func ResolveFormat(explicit, path string) (Format, error) {
	if explicit != "" {
		return ParseFormat(explicit)
	}
	if f, ok := FormatForPath(path); ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: cannot infer a format from %q, pass --format", domain.ErrUnsupportedFormat, path)
}
