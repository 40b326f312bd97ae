// Package geometry converts ground-model geometry to and from well-known text
// and well-known binary, and sanity checks opaque surface mesh payloads.
//
// Points, lines and polygons are always handled in the XYZ layout: 2D input
// is lifted to z = 0 on decode.
package geometry

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.GeometryCodec = (*Codec)(nil)

// Codec implements driven.GeometryCodec. The zero value is ready to use.
type Codec struct{}

// New creates a geometry codec.
func New() *Codec {
	return &Codec{}
}

// EncodeText implements driven.GeometryCodec.
func (c *Codec) EncodeText(g domain.Geometry) (string, error) {
	return EncodeText(g)
}

// DecodeText implements driven.GeometryCodec.
func (c *Codec) DecodeText(text string) (domain.Geometry, error) {
	return DecodeText(text)
}

// EncodeBinary implements driven.GeometryCodec.
func (c *Codec) EncodeBinary(g domain.Geometry) ([]byte, error) {
	return EncodeBinary(g)
}

// DecodeBinary implements driven.GeometryCodec.
func (c *Codec) DecodeBinary(data []byte) (domain.Geometry, error) {
	return DecodeBinary(data)
}

// CheckSurface implements driven.GeometryCodec.
func (c *Codec) CheckSurface(s *domain.Surface) error {
	return CheckSurface(s)
}

// CheckEmbedded implements driven.GeometryCodec.
func (c *Codec) CheckEmbedded(g domain.Geometry) (bool, error) {
	return CheckEmbedded(g)
}

// EncodeText renders a point, line or polygon as WKT with a Z dimension.
// Coordinate and ring order are preserved. Surfaces have no text form.
func EncodeText(g domain.Geometry) (string, error) {
	t, err := toGeom(g)
	if err != nil {
		return "", err
	}
	s, err := wkt.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedGeometryText, err)
	}
	return s, nil
}

// DecodeText parses WKT into a point, line or polygon.
func DecodeText(text string) (domain.Geometry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrMalformedGeometryText)
	}
	t, err := wkt.Unmarshal(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedGeometryText, err)
	}
	return fromGeom(t)
}

// EncodeBinary renders a point, line or polygon as little-endian WKB. A
// surface's binary form is its own mesh payload, returned after a size check.
func EncodeBinary(g domain.Geometry) ([]byte, error) {
	if s, ok := g.(*domain.Surface); ok {
		if err := CheckSurface(s); err != nil {
			return nil, err
		}
		return append([]byte(nil), s.Data...), nil
	}
	t, err := toGeom(g)
	if err != nil {
		return nil, err
	}
	data, err := wkb.Marshal(t, binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return data, nil
}

// DecodeBinary parses WKB into a point, line or polygon.
// Use DecodeSurface for mesh payloads.
func DecodeBinary(data []byte) (domain.Geometry, error) {
	if len(data) == 0 {
		return nil, domain.ErrEmptyGeometry
	}
	t, err := wkb.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	return fromGeom(t)
}

func toGeom(g domain.Geometry) (geom.T, error) {
	switch g := g.(type) {
	case *domain.Point:
		return geom.NewPoint(geom.XYZ).SetCoords(toCoord(g.Coord))
	case *domain.LineString:
		if len(g.Coords) == 0 {
			return nil, domain.ErrEmptyGeometry
		}
		return geom.NewLineString(geom.XYZ).SetCoords(toCoords(g.Coords))
	case *domain.Polygon:
		if len(g.Exterior) == 0 {
			return nil, domain.ErrEmptyGeometry
		}
		rings := make([][]geom.Coord, 0, 1+len(g.Interiors))
		rings = append(rings, toCoords(g.Exterior))
		for _, ring := range g.Interiors {
			rings = append(rings, toCoords(ring))
		}
		return geom.NewPolygon(geom.XYZ).SetCoords(rings)
	case *domain.Surface:
		return nil, fmt.Errorf("%w: surfaces have no text form", domain.ErrUnsupportedGeometryKind)
	case nil:
		return nil, domain.ErrEmptyGeometry
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedGeometryKind, g)
	}
}

func fromGeom(t geom.T) (domain.Geometry, error) {
	if t.Empty() {
		return nil, domain.ErrEmptyGeometry
	}
	switch t := t.(type) {
	case *geom.Point:
		return &domain.Point{Coord: fromCoord(t.Coords(), t.Layout())}, nil
	case *geom.LineString:
		return &domain.LineString{Coords: fromCoords(t.Coords(), t.Layout())}, nil
	case *geom.Polygon:
		rings := t.Coords()
		p := &domain.Polygon{Exterior: fromCoords(rings[0], t.Layout())}
		for _, ring := range rings[1:] {
			p.Interiors = append(p.Interiors, fromCoords(ring, t.Layout()))
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedGeometryKind, t)
	}
}

func toCoord(c domain.Coord) geom.Coord {
	return geom.Coord{c.X, c.Y, c.Z}
}

func toCoords(cs []domain.Coord) []geom.Coord {
	out := make([]geom.Coord, len(cs))
	for i, c := range cs {
		out[i] = toCoord(c)
	}
	return out
}

// fromCoord reads x, y and, when the layout has one, z. M values are dropped.
func fromCoord(c geom.Coord, layout geom.Layout) domain.Coord {
	out := domain.Coord{X: c.X(), Y: c.Y()}
	if zi := layout.ZIndex(); zi >= 0 && zi < len(c) {
		out.Z = c[zi]
	}
	return out
}

func fromCoords(cs []geom.Coord, layout geom.Layout) []domain.Coord {
	out := make([]domain.Coord, len(cs))
	for i, c := range cs {
		out[i] = fromCoord(c, layout)
	}
	return out
}
