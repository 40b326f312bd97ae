package geometry

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

func squareWithHole() *domain.Polygon {
	exterior := []domain.Coord{{0, 0, 1}, {10, 0, 1}, {10, 10, 1}, {0, 10, 1}, {0, 0, 1}}
	hole1 := []domain.Coord{{2, 2, 1}, {4, 2, 1}, {4, 4, 1}, {2, 2, 1}}
	hole2 := []domain.Coord{{6, 6, 1}, {8, 6, 1}, {8, 8, 1}, {6, 6, 1}}
	return domain.NewPolygon(exterior, hole1, hole2)
}

func TestEncodeText_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		geom domain.Geometry
	}{
		{"point", domain.NewPoint(512345.123456, 181234.654321, -12.5)},
		{"line", domain.NewLineString(domain.Coord{X: 0, Y: 0, Z: 0}, domain.Coord{X: 1.5, Y: 2.25, Z: -3})},
		{"polygon with holes", squareWithHole()},
		{"tiny values", domain.NewPoint(1e-7, -2.000001, 3.141592653589793)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := EncodeText(tt.geom)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(text, string(tt.geom.Kind())), text)

			decoded, err := DecodeText(text)
			require.NoError(t, err)
			assert.Equal(t, tt.geom, decoded)
		})
	}
}

func TestEncodeText_Deterministic(t *testing.T) {
	a, err := EncodeText(squareWithHole())
	require.NoError(t, err)
	b, err := EncodeText(squareWithHole())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeText_PreservesInteriorRingOrder(t *testing.T) {
	poly := squareWithHole()
	text, err := EncodeText(poly)
	require.NoError(t, err)

	decoded, err := DecodeText(text)
	require.NoError(t, err)
	got := decoded.(*domain.Polygon)
	require.Len(t, got.Interiors, 2)
	assert.Equal(t, poly.Interiors[0], got.Interiors[0])
	assert.Equal(t, poly.Interiors[1], got.Interiors[1])
}

func TestEncodeText_Surface(t *testing.T) {
	_, err := EncodeText(domain.NewSurface([]byte("v 0 0 0\n"), 1, 0))
	assert.True(t, errors.Is(err, domain.ErrUnsupportedGeometryKind))
}

func TestEncodeText_Empty(t *testing.T) {
	_, err := EncodeText(domain.NewLineString())
	assert.True(t, errors.Is(err, domain.ErrEmptyGeometry))

	_, err = EncodeText(nil)
	assert.True(t, errors.Is(err, domain.ErrEmptyGeometry))
}

func TestDecodeText_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"blank", "   ", domain.ErrMalformedGeometryText},
		{"garbage", "NOT A GEOMETRY", domain.ErrMalformedGeometryText},
		{"unterminated", "POINT Z (1 2", domain.ErrMalformedGeometryText},
		{"empty point", "POINT EMPTY", domain.ErrEmptyGeometry},
		{"multi geometry", "MULTILINESTRING ((0 0, 1 1))", domain.ErrUnsupportedGeometryKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeText(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestDecodeText_LiftsXYToZero(t *testing.T) {
	g, err := DecodeText("POINT (3 4)")
	require.NoError(t, err)
	assert.Equal(t, domain.NewPoint(3, 4, 0), g)
}

func TestBinary_RoundTrip(t *testing.T) {
	for _, g := range []domain.Geometry{
		domain.NewPoint(1, 2, 3),
		domain.NewLineString(domain.Coord{X: 0, Y: 0, Z: 0}, domain.Coord{X: 5, Y: 5, Z: 5}),
		squareWithHole(),
	} {
		t.Run(string(g.Kind()), func(t *testing.T) {
			data, err := EncodeBinary(g)
			require.NoError(t, err)
			assert.Equal(t, byte(1), data[0], "little endian marker")

			decoded, err := DecodeBinary(data)
			require.NoError(t, err)
			assert.Equal(t, g, decoded)
		})
	}
}

func TestBinary_Surface(t *testing.T) {
	mesh := []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	s := domain.NewSurface(mesh, 3, 1)

	data, err := EncodeBinary(s)
	require.NoError(t, err)
	assert.Equal(t, mesh, data)

	s.VertexCount = 10000
	_, err = EncodeBinary(s)
	assert.True(t, errors.Is(err, domain.ErrGeometryPayloadSizeMismatch))
}

func TestDecodeBinary_Errors(t *testing.T) {
	_, err := DecodeBinary(nil)
	assert.True(t, errors.Is(err, domain.ErrEmptyGeometry))

	_, err = DecodeBinary([]byte{0x01, 0x02})
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))
}

func TestCodec_ImplementsPort(t *testing.T) {
	c := New()
	text, err := c.EncodeText(domain.NewPoint(1, 2, 3))
	require.NoError(t, err)
	g, err := c.DecodeText(text)
	require.NoError(t, err)

	data, err := c.EncodeBinary(g)
	require.NoError(t, err)
	back, err := c.DecodeBinary(data)
	require.NoError(t, err)
	assert.True(t, SameShape(g, back))

	assert.NoError(t, c.CheckSurface(domain.NewSurface(nil, 0, 0)))
}
