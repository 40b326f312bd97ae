package text

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
	"github.com/custodia-labs/agsi-cli/internal/sample"
)

func codecs() []driven.Codec {
	return []driven.Codec{NewJSONCodec(), NewYAMLCodec()}
}

func TestRoundTrip(t *testing.T) {
	for _, c := range codecs() {
		t.Run(string(c.Format()), func(t *testing.T) {
			for name, doc := range map[string]*domain.Document{
				"sample":  sample.Document(),
				"full":    sample.Full(),
				"minimal": domain.NewDocument("DOC1"),
			} {
				data, err := c.Encode(doc)
				require.NoError(t, err, name)

				decoded, err := c.Decode(data)
				require.NoError(t, err, name)
				assert.Equal(t, doc, decoded, name)
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	for _, c := range codecs() {
		t.Run(string(c.Format()), func(t *testing.T) {
			a, err := c.Encode(sample.Full())
			require.NoError(t, err)
			b, err := c.Encode(sample.Full())
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestEncode_SortedAttributes(t *testing.T) {
	doc := sample.Document()
	c := &doc.Models[0].Components[0]
	for _, k := range []string{"zeta", "alpha", "mid"} {
		c.SetAttribute(k, k)
	}

	data, err := NewJSONCodec().Encode(doc)
	require.NoError(t, err)
	s := string(data)
	assert.Less(t, strings.Index(s, `"alpha"`), strings.Index(s, `"mid"`))
	assert.Less(t, strings.Index(s, `"mid"`), strings.Index(s, `"zeta"`))
}

func TestPolygonInteriorRingPreserved(t *testing.T) {
	exterior := []domain.Coord{{X: 0, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 0}, {X: 4, Y: 4, Z: 0}, {X: 0, Y: 0, Z: 0}}
	hole := []domain.Coord{{X: 1, Y: 1, Z: 0}, {X: 2, Y: 1, Z: 0}, {X: 1.5, Y: 1.75, Z: 0}, {X: 1, Y: 1, Z: 0}}
	doc := domain.NewDocument("DOC1").
		AddMaterial(domain.NewMaterial("MAT001", "Clay", domain.MaterialKindSoil)).
		AddModel(domain.NewGroundModel("GM1", "M", domain.ModelTypeStratigraphic, domain.Dimension2D).
			AddComponent(domain.NewComponent("C1", "Layer", domain.ComponentKindLayer, "MAT001",
				domain.NewPolygon(exterior, hole))))

	data, err := NewJSONCodec().Encode(doc)
	require.NoError(t, err)
	decoded, err := NewJSONCodec().Decode(data)
	require.NoError(t, err)

	poly, ok := decoded.Models[0].Components[0].Geometry.(*domain.Polygon)
	require.True(t, ok)
	require.Len(t, poly.Interiors, 1)
	assert.Equal(t, hole, poly.Interiors[0])
	assert.Equal(t, exterior, poly.Exterior)
}

func TestEncode_LenientEnumsAndNormalisedCodes(t *testing.T) {
	doc := domain.NewDocument("DOC1").
		AddMaterial(domain.NewMaterial("MAT001", "Peat", "PEAT").
			AddNumeric(domain.CustomCode("anglefriction"), 30))

	data, err := NewJSONCodec().Encode(doc)
	require.NoError(t, err)

	decoded, err := NewJSONCodec().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, domain.MaterialKind("PEAT"), decoded.Materials[0].Kind)
	assert.Equal(t, domain.StandardCode(domain.ParamAngleFriction), decoded.Materials[0].Properties[0].Code)
}

func TestEncode_NonFinite(t *testing.T) {
	doc := domain.NewDocument("DOC1").
		AddMaterial(domain.NewMaterial("MAT001", "Clay", domain.MaterialKindSoil).
			AddNumeric(domain.StandardCode(domain.ParamCohesion), math.Inf(1)))

	for _, c := range codecs() {
		_, err := c.Encode(doc)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrSchemaMismatch))
		assert.Contains(t, err.Error(), "materials[0].properties[0].value")
	}
}

func TestJSONDecode_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPath   string
		wantOffset bool
	}{
		{"empty", "", "", true},
		{"syntax", `{"schema": {"name": "AGSi"},, }`, "", true},
		{"type", `{"file": {"id": 42}}`, "", true},
		{"unknown field", `{"file": {"id": "D"}, "bogus": 1}`, "bogus", true},
		{"trailing", `{"file": {"id": "D"}} {"x": 1}`, "", true},
		{"bad value", `{"file": {"id": "D"}, "materials": [{"id": "M", "name": "n", "kind": "SOIL",
			"properties": [{"code": "CBR", "value": {"number": 1, "text": "x"}}]}]}`, "materials[0].properties[0].value", false},
		{"bad shape", `{"file": {"id": "D"}, "models": [{"id": "G", "name": "n", "type": "", "dimension": "",
			"components": [{"id": "C", "name": "n", "kind": "", "materialRef": "M",
			"geometry": {"type": "POINT", "shape": "POINT Z (1 2"}}]}]}`, "models[0].components[0].geometry.shape", false},
		{"bad timestamp", `{"file": {"id": "D", "createdAt": "yesterday"}}`, "file.createdAt", false},
		{"foreign schema", `{"schema": {"name": "Other", "version": "1"}, "file": {"id": "D"}}`, "schema.name", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJSONCodec().Decode([]byte(tt.input))
			require.Error(t, err)

			var ce *domain.CodecError
			require.True(t, errors.As(err, &ce), err.Error())
			assert.Equal(t, "decode", ce.Op)
			assert.True(t, ce.Offset >= 0 || ce.Path != "", "decode errors name an offset or a path")
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, ce.Path)
			}
			if tt.wantOffset {
				assert.GreaterOrEqual(t, ce.Offset, int64(0))
			}
		})
	}
}

func TestJSONDecode_TrailingOffset(t *testing.T) {
	input := `{"file": {"id": "D"}}   {"x": 1}`
	_, err := NewJSONCodec().Decode([]byte(input))

	var ce *domain.CodecError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, int64(strings.Index(input, `{"x"`)), ce.Offset)
}

func TestYAMLDecode_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOffset int64
	}{
		{"empty", "", 0},
		{"unknown field", "file:\n  id: D\nbogus: 1\n", 14},
		{"syntax", "file:\n  id: D\n  name: [unclosed\n", -2},
		{"two documents", "file:\n  id: D\n---\nfile:\n  id: E\n", 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYAMLCodec().Decode([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedInput))

			var ce *domain.CodecError
			require.True(t, errors.As(err, &ce))
			assert.GreaterOrEqual(t, ce.Offset, int64(0))
			if tt.wantOffset >= 0 {
				assert.Equal(t, tt.wantOffset, ce.Offset)
			}
		})
	}
}

func TestTextFormatsAgree(t *testing.T) {
	doc := sample.Full()

	yamlData, err := NewYAMLCodec().Encode(doc)
	require.NoError(t, err)
	fromYAML, err := NewYAMLCodec().Decode(yamlData)
	require.NoError(t, err)

	jsonFromYAML, err := NewJSONCodec().Encode(fromYAML)
	require.NoError(t, err)
	jsonDirect, err := NewJSONCodec().Encode(doc)
	require.NoError(t, err)

	assert.Equal(t, string(jsonDirect), string(jsonFromYAML))
}

func TestLineOffset(t *testing.T) {
	data := []byte("a\nbb\nccc\n")
	assert.Equal(t, int64(0), lineOffset(data, 1))
	assert.Equal(t, int64(2), lineOffset(data, 2))
	assert.Equal(t, int64(5), lineOffset(data, 3))
	assert.Equal(t, int64(len(data)), lineOffset(data, 10))
}

func TestRoundTrip_NegativeZeroKeepsSign(t *testing.T) {
	negZero := math.Copysign(0, -1)
	doc := domain.NewDocument("DOC1").
		AddModel(domain.NewGroundModel("GM1", "M", domain.ModelTypeStratigraphic, domain.Dimension2D).
			WithBoundary(domain.Boundary{MinX: negZero, MaxX: 10, MinY: 0, MaxY: 10}).
			AddComponent(domain.NewComponent("C1", "Layer", domain.ComponentKindLayer, "MAT001",
				domain.NewPoint(negZero, 0, 0))))

	for _, c := range codecs() {
		t.Run(string(c.Format()), func(t *testing.T) {
			data, err := c.Encode(doc)
			require.NoError(t, err)
			decoded, err := c.Decode(data)
			require.NoError(t, err)

			m := decoded.Models[0]
			assert.True(t, math.Signbit(m.Boundary.MinX))
			assert.False(t, math.Signbit(m.Boundary.MinY))
			p := m.Components[0].Geometry.(*domain.Point)
			assert.True(t, math.Signbit(p.Coord.X))
		})
	}
}
