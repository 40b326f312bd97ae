package schema

import (
	"fmt"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// FlatGeometry is the kind-independent geometry layout of the binary
// formats. Coords holds x, y, z triples and RingSizes the point count of
// each polygon ring, exterior first.
type FlatGeometry struct {
	Kind        domain.GeometryKind
	CRS         string
	Coords      []float64
	RingSizes   []int32
	WKT         string
	WKB         []byte
	Data        []byte
	MeshFormat  string
	VertexCount int
	FaceCount   int
	Bounds      *domain.BoundingBox
}

// Flatten converts g to its flat layout. It returns nil for a nil geometry.
func Flatten(g domain.Geometry) *FlatGeometry {
	if g == nil {
		return nil
	}
	f := &FlatGeometry{Kind: g.Kind(), CRS: g.CRSID()}
	switch g := g.(type) {
	case *domain.Point:
		f.Coords = appendCoords(f.Coords, []domain.Coord{g.Coord})
		f.WKT, f.WKB = g.WKT, g.WKB
	case *domain.LineString:
		f.Coords = appendCoords(f.Coords, g.Coords)
		f.WKT, f.WKB = g.WKT, g.WKB
	case *domain.Polygon:
		f.Coords = appendCoords(f.Coords, g.Exterior)
		f.RingSizes = append(f.RingSizes, int32(len(g.Exterior)))
		for _, ring := range g.Interiors {
			f.Coords = appendCoords(f.Coords, ring)
			f.RingSizes = append(f.RingSizes, int32(len(ring)))
		}
		f.WKT, f.WKB = g.WKT, g.WKB
	case *domain.Surface:
		f.Data = g.Data
		f.MeshFormat = g.MeshFormat
		f.VertexCount = g.VertexCount
		f.FaceCount = g.FaceCount
		if g.Bounds != nil {
			b := *g.Bounds
			f.Bounds = &b
		}
	}
	return f
}

func appendCoords(dst []float64, cs []domain.Coord) []float64 {
	for _, c := range cs {
		dst = append(dst, c.X, c.Y, c.Z)
	}
	return dst
}

// Geometry rebuilds the domain geometry. Inconsistent layouts fail with
// domain.ErrMalformedInput naming path, an unknown kind with
// domain.ErrSchemaMismatch. Empty byte slices decode as nil.
func (f *FlatGeometry) Geometry(format, path string) (domain.Geometry, error) {
	malformed := func(msg string, args ...any) error {
		return domain.NewDecodeError(format, domain.ErrMalformedInput, -1, path, fmt.Errorf(msg, args...))
	}
	if len(f.Coords)%3 != 0 {
		return nil, malformed("%d coordinate values is not a multiple of 3", len(f.Coords))
	}
	if f.Bounds != nil && f.Kind != domain.GeometryKindSurface {
		return nil, malformed("bounds on a %s geometry", f.Kind)
	}
	coords := unflatten(f.Coords)

	switch f.Kind {
	case domain.GeometryKindPoint:
		if len(coords) != 1 {
			return nil, malformed("point with %d coordinates", len(coords))
		}
		return &domain.Point{Coord: coords[0], CRS: f.CRS, WKT: f.WKT, WKB: nonEmpty(f.WKB)}, nil
	case domain.GeometryKindLineString:
		return &domain.LineString{Coords: coords, CRS: f.CRS, WKT: f.WKT, WKB: nonEmpty(f.WKB)}, nil
	case domain.GeometryKindPolygon:
		total := 0
		for _, n := range f.RingSizes {
			if n < 0 {
				return nil, malformed("negative ring size %d", n)
			}
			total += int(n)
		}
		if len(f.RingSizes) == 0 || total != len(coords) {
			return nil, malformed("ring sizes cover %d of %d coordinates", total, len(coords))
		}
		p := &domain.Polygon{CRS: f.CRS, WKT: f.WKT, WKB: nonEmpty(f.WKB)}
		start := 0
		for k, n := range f.RingSizes {
			end := start + int(n)
			ring := coords[start:end:end]
			start = end
			if k == 0 {
				p.Exterior = ring
				continue
			}
			p.Interiors = append(p.Interiors, ring)
		}
		return p, nil
	case domain.GeometryKindSurface:
		return &domain.Surface{
			Data:        nonEmpty(f.Data),
			MeshFormat:  f.MeshFormat,
			VertexCount: f.VertexCount,
			FaceCount:   f.FaceCount,
			Bounds:      f.Bounds,
			CRS:         f.CRS,
		}, nil
	default:
		return nil, domain.NewDecodeError(format, domain.ErrSchemaMismatch, -1, path+".kind",
			fmt.Errorf("unknown geometry kind %q", f.Kind))
	}
}

func unflatten(vals []float64) []domain.Coord {
	if len(vals) == 0 {
		return nil
	}
	out := make([]domain.Coord, 0, len(vals)/3)
	for i := 0; i+2 < len(vals); i += 3 {
		out = append(out, domain.Coord{X: vals[i], Y: vals[i+1], Z: vals[i+2]})
	}
	return out
}

func nonEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
