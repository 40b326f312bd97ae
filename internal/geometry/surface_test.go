package geometry

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

func TestCheckPayload(t *testing.T) {
	triangle := []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	tests := []struct {
		name     string
		data     []byte
		format   string
		vertices int
		faces    int
		wantErr  bool
	}{
		{"consistent obj", triangle, "obj", 3, 1, false},
		{"upper case tag", triangle, "OBJ", 3, 1, false},
		{"no counts", triangle, "obj", 0, 0, false},
		{"too small", triangle, "obj", 300, 100, true},
		{"too large", bytes.Repeat([]byte("#"), 200000), "obj", 3, 1, true},
		{"empty payload with counts", nil, "obj", 3, 1, true},
		{"negative counts", triangle, "obj", -1, 1, true},
		{"unknown format only checks minimum", bytes.Repeat([]byte{0}, 1<<20), "gltf", 3, 1, false},
		{"stl face records", make([]byte, 84+50*2), "stl", 4, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPayload(tt.data, tt.format, tt.vertices, tt.faces)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrGeometryPayloadSizeMismatch))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDecodeSurface(t *testing.T) {
	data := []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	s, err := DecodeSurface(data, "", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMeshFormat, s.MeshFormat)
	assert.Equal(t, data, s.Data)

	data[0] = 'x'
	assert.Equal(t, byte('v'), s.Data[0], "payload is copied")

	_, err = DecodeSurface(nil, "obj", 3, 1)
	assert.True(t, errors.Is(err, domain.ErrGeometryPayloadSizeMismatch))
}

func TestCheckSurface_Nil(t *testing.T) {
	assert.True(t, errors.Is(CheckSurface(nil), domain.ErrEmptyGeometry))
}

func TestCheckEmbedded(t *testing.T) {
	p := domain.NewPoint(1, 2, 3)
	text, err := EncodeText(p)
	require.NoError(t, err)
	bin, err := EncodeBinary(p)
	require.NoError(t, err)

	p.WKT, p.WKB = text, bin
	ok, err := CheckEmbedded(p)
	require.NoError(t, err)
	assert.True(t, ok)

	moved := domain.NewPoint(9, 9, 9)
	moved.WKT = text
	ok, err = CheckEmbedded(moved)
	require.NoError(t, err)
	assert.False(t, ok)

	bad := domain.NewPoint(1, 2, 3)
	bad.WKT = "POINT Z (1 2"
	_, err = CheckEmbedded(bad)
	assert.True(t, errors.Is(err, domain.ErrMalformedGeometryText))

	wrongKind := domain.NewLineString(domain.Coord{}, domain.Coord{X: 1})
	wrongKind.WKT = text
	_, err = CheckEmbedded(wrongKind)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedGeometryKind))

	ok, err = CheckEmbedded(domain.NewSurface(nil, 0, 0))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSameShape(t *testing.T) {
	assert.True(t, SameShape(domain.NewPoint(1, 2, 3), domain.NewPoint(1, 2, 3+1e-12)))
	assert.False(t, SameShape(domain.NewPoint(1, 2, 3), domain.NewPoint(1, 2, 3.1)))
	assert.False(t, SameShape(domain.NewPoint(1, 2, 3), domain.NewLineString(domain.Coord{X: 1, Y: 2, Z: 3})))
	assert.False(t, SameShape(nil, domain.NewPoint(0, 0, 0)))
	assert.True(t, SameShape(squareWithHole(), squareWithHole()))
}

func TestBase64(t *testing.T) {
	data := []byte{0, 1, 2, 250, 255}
	s := EncodeBase64(data)

	back, err := DecodeBase64(s)
	require.NoError(t, err)
	assert.Equal(t, data, back)

	_, err = DecodeBase64("!!not base64")
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))
}
