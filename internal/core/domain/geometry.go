package domain

// GeometryKind identifies the variant of a Geometry.
type GeometryKind string

// Available geometry kinds.
const (
	GeometryKindPoint      GeometryKind = "POINT"
	GeometryKindLineString GeometryKind = "LINESTRING"
	GeometryKindPolygon    GeometryKind = "POLYGON"
	GeometryKindSurface    GeometryKind = "SURFACE"
)

// IsValid returns true if the geometry kind is recognised.
func (k GeometryKind) IsValid() bool {
	switch k {
	case GeometryKindPoint, GeometryKindLineString, GeometryKindPolygon, GeometryKindSurface:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k GeometryKind) String() string {
	return string(k)
}

// DefaultMeshFormat is the mesh format tag assumed for surfaces that do not declare one.
const DefaultMeshFormat = "obj"

// Coord is an (x, y, z) coordinate triple.
type Coord struct {
	X float64
	Y float64
	Z float64
}

// Geometry is the closed set of spatial payloads a component may carry.
// The implementations are Point, LineString, Polygon and Surface.
type Geometry interface {
	// Kind returns the variant tag.
	Kind() GeometryKind

	// CRSID returns the coordinate reference system identifier, may be empty.
	CRSID() string

	isGeometry()
}

// Point is a single coordinate.
type Point struct {
	Coord Coord

	// CRS is an optional coordinate reference system identifier.
	CRS string

	// WKT is an optional parallel text encoding of the same shape.
	WKT string

	// WKB is an optional parallel binary encoding of the same shape.
	WKB []byte
}

// LineString is an ordered sequence of coordinates.
type LineString struct {
	Coords []Coord
	CRS    string
	WKT    string
	WKB    []byte
}

// Polygon is an exterior ring with optional interior rings.
// Interior rings keep their insertion order.
type Polygon struct {
	Exterior  []Coord
	Interiors [][]Coord
	CRS       string
	WKT       string
	WKB       []byte
}

// Surface is an opaque mesh payload. Vertex and face counts are used only to
// sanity check the payload size.
type Surface struct {
	// Data is the mesh payload in MeshFormat.
	Data []byte

	// MeshFormat names the external mesh format (default "obj").
	MeshFormat string

	VertexCount int
	FaceCount   int

	// Bounds is an optional precomputed bounding box.
	Bounds *BoundingBox

	CRS string
}

// BoundingBox is an axis-aligned 3D box.
type BoundingBox struct {
	MinX float64
	MinY float64
	MinZ float64
	MaxX float64
	MaxY float64
	MaxZ float64
}

// Kind implements Geometry.
func (*Point) Kind() GeometryKind { return GeometryKindPoint }

// Kind implements Geometry.
func (*LineString) Kind() GeometryKind { return GeometryKindLineString }

// Kind implements Geometry.
func (*Polygon) Kind() GeometryKind { return GeometryKindPolygon }

// Kind implements Geometry.
func (*Surface) Kind() GeometryKind { return GeometryKindSurface }

// CRSID implements Geometry.
func (g *Point) CRSID() string { return g.CRS }

// CRSID implements Geometry.
func (g *LineString) CRSID() string { return g.CRS }

// CRSID implements Geometry.
func (g *Polygon) CRSID() string { return g.CRS }

// CRSID implements Geometry.
func (g *Surface) CRSID() string { return g.CRS }

func (*Point) isGeometry()      {}
func (*LineString) isGeometry() {}
func (*Polygon) isGeometry()    {}
func (*Surface) isGeometry()    {}

// NewPoint creates a point geometry.
func NewPoint(x, y, z float64) *Point {
	return &Point{Coord: Coord{X: x, Y: y, Z: z}}
}

// NewLineString creates a line geometry from ordered coordinates.
func NewLineString(coords ...Coord) *LineString {
	return &LineString{Coords: coords}
}

// NewPolygon creates a polygon with an exterior ring and optional interior rings.
func NewPolygon(exterior []Coord, interiors ...[]Coord) *Polygon {
	if len(interiors) == 0 {
		interiors = nil
	}
	return &Polygon{Exterior: exterior, Interiors: interiors}
}

// NewSurface creates a surface geometry over an opaque mesh payload.
func NewSurface(data []byte, vertexCount, faceCount int) *Surface {
	return &Surface{
		Data:        data,
		MeshFormat:  DefaultMeshFormat,
		VertexCount: vertexCount,
		FaceCount:   faceCount,
	}
}

// CoordCount returns the number of coordinates a geometry carries.
// Surfaces report their declared vertex count.
func CoordCount(g Geometry) int {
	switch g := g.(type) {
	case *Point:
		return 1
	case *LineString:
		return len(g.Coords)
	case *Polygon:
		n := len(g.Exterior)
		for _, ring := range g.Interiors {
			n += len(ring)
		}
		return n
	case *Surface:
		return g.VertexCount
	default:
		return 0
	}
}
