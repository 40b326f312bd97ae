package serialization

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/sample"
	"github.com/custodia-labs/agsi-cli/internal/serialization/schema"
)

func TestDefault_Formats(t *testing.T) {
	assert.Equal(t, []Format{Text, YAML, Compact, Wire}, Default().Formats())
	for _, f := range domain.AllOutputFormats() {
		assert.True(t, Default().Has(f), f)
	}
}

func TestRegistry_UnknownFormat(t *testing.T) {
	_, err := NewRegistry().Codec(Text)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))

	_, err = Encode(sample.Document(), "xml")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))

	_, err = Decode([]byte("{}"), "")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	RegisterDefaults(r)
	assert.Len(t, r.Formats(), 4)
}

// Every ordered pair of formats agrees through the in-memory document.
func TestCrossFormatRoundTrip(t *testing.T) {
	doc := sample.Document()
	formats := Default().Formats()

	for _, from := range formats {
		for _, to := range formats {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				first, err := Encode(doc, from)
				require.NoError(t, err)
				pivot, err := Decode(first, from)
				require.NoError(t, err)

				second, err := Encode(pivot, to)
				require.NoError(t, err)
				decoded, err := Decode(second, to)
				require.NoError(t, err)

				assert.Equal(t, doc, decoded)
			})
		}
	}
}

func TestRoundTrip_FreeTextSpellingOfStandardCode(t *testing.T) {
	doc := domain.NewDocument("DOC1").
		AddMaterial(domain.NewMaterial("MAT001", "Clay", domain.MaterialKindSoil).
			AddNumeric(domain.CustomCode("anglefriction"), 95))

	for _, f := range Default().Formats() {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(doc, f)
			require.NoError(t, err)
			decoded, err := Decode(data, f)
			require.NoError(t, err)

			assert.Equal(t, doc, decoded)
			assert.True(t, decoded.Materials[0].Properties[0].Code.IsStandard())
		})
	}
}

func TestEncode_TimestampsOutsideBinaryRange(t *testing.T) {
	created := time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
	modified := time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := domain.NewDocument("DOC1")
	doc.CreatedAt, doc.ModifiedAt = &created, &modified

	data, err := Encode(doc, Text)
	require.NoError(t, err)
	decoded, err := Decode(data, Text)
	require.NoError(t, err)
	assert.True(t, created.Equal(*decoded.CreatedAt))
	assert.True(t, modified.Equal(*decoded.ModifiedAt))

	for _, f := range []Format{Compact, Wire} {
		_, err := Encode(doc, f)
		require.Error(t, err, f)
		assert.True(t, errors.Is(err, domain.ErrSchemaMismatch), f)
		assert.Contains(t, err.Error(), "file.createdAt", f)
	}
}

func TestPendingFields(t *testing.T) {
	doc := sample.Full()
	for _, f := range Default().Formats() {
		t.Run(string(f), func(t *testing.T) {
			_, err := Encode(doc, f)
			if schema.Supports(f, "models[].components[].attributes") &&
				schema.Supports(f, "models[].components[].geometry.bounds") {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrUnsupportedField))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("compact")
	require.NoError(t, err)
	assert.Equal(t, Compact, f)

	_, err = ParseFormat("avro")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}

func TestSchema(t *testing.T) {
	avsc, err := Schema(Compact)
	require.NoError(t, err)
	assert.Contains(t, avsc, "GroundModel")

	proto, err := Schema(Wire)
	require.NoError(t, err)
	assert.Contains(t, proto, "message GroundModel")

	_, err = Schema(Text)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
	assert.True(t, IsBinary(Wire))
	assert.False(t, IsBinary(YAML))
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"site.json":          Text,
		"dir/site.agsi.json": Text,
		"SITE.YML":           YAML,
		"site.yaml":          YAML,
		"site.avro":          Compact,
		"site.agsc":          Compact,
		"site.pb":            Wire,
		"site.binpb":         Wire,
	}
	for path, want := range tests {
		got, ok := FormatForPath(path)
		assert.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}

	_, ok := FormatForPath("site.xml")
	assert.False(t, ok)
}

func TestResolveFormat(t *testing.T) {
	f, err := ResolveFormat("wire", "site.json")
	require.NoError(t, err)
	assert.Equal(t, Wire, f)

	f, err = ResolveFormat("", "site.yaml")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	_, err = ResolveFormat("", "site.bin")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))

	_, err = ResolveFormat("xml", "site.json")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}
