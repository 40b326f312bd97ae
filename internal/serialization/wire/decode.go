package wire

import (
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/serialization/schema"
)

// message is an undecoded message body at an absolute payload offset.
type message struct {
	data []byte
	base int64
	path string
}

// field is one decoded tag with its raw value. Offsets are absolute.
type field struct {
	num         protowire.Number
	typ         protowire.Type
	raw         []byte
	offset      int64
	valueOffset int64
}

type decoder struct {
	format string
}

func (d *decoder) malformed(offset int64, path string, err error) error {
	return domain.NewDecodeError(d.format, domain.ErrMalformedInput, offset, path, err)
}

func (d *decoder) mismatch(offset int64, path string, err error) error {
	return domain.NewDecodeError(d.format, domain.ErrSchemaMismatch, offset, path, err)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// walk calls fn for every field of m in wire order. Groups are rejected.
func (d *decoder) walk(m message, fn func(f field) error) error {
	b := m.data
	off := 0
	for off < len(b) {
		num, typ, n := protowire.ConsumeTag(b[off:])
		if n < 0 {
			return d.malformed(m.base+int64(off), m.path, protowire.ParseError(n))
		}
		if typ == protowire.StartGroupType || typ == protowire.EndGroupType {
			return d.malformed(m.base+int64(off), m.path,
				fmt.Errorf("field %d uses the group wire type", num))
		}
		f := field{num: num, typ: typ, offset: m.base + int64(off), valueOffset: m.base + int64(off+n)}
		off += n
		vn := protowire.ConsumeFieldValue(num, typ, b[off:])
		if vn < 0 {
			return d.malformed(f.valueOffset, m.path, protowire.ParseError(vn))
		}
		f.raw = b[off : off+vn]
		off += vn
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) unknown(m message, f field) error {
	return d.mismatch(f.offset, m.path, fmt.Errorf("unknown field number %d", f.num))
}

func (d *decoder) wantType(f field, path string, want protowire.Type) error {
	if f.typ != want {
		return d.malformed(f.offset, path, fmt.Errorf("wire type %d, want %d", f.typ, want))
	}
	return nil
}

func (d *decoder) payload(f field, path string) ([]byte, int64, error) {
	if err := d.wantType(f, path, protowire.BytesType); err != nil {
		return nil, 0, err
	}
	v, n := protowire.ConsumeBytes(f.raw)
	return v, f.valueOffset + int64(n-len(v)), nil
}

func (d *decoder) str(f field, path string) (string, error) {
	v, off, err := d.payload(f, path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(v) {
		return "", d.malformed(off, path, errors.New("string is not valid UTF-8"))
	}
	return string(v), nil
}

func (d *decoder) bytes(f field, path string) ([]byte, error) {
	v, _, err := d.payload(f, path)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (d *decoder) sub(f field, path string) (message, error) {
	v, off, err := d.payload(f, path)
	if err != nil {
		return message{}, err
	}
	return message{data: v, base: off, path: path}, nil
}

func (d *decoder) double(f field, path string) (float64, error) {
	if err := d.wantType(f, path, protowire.Fixed64Type); err != nil {
		return 0, err
	}
	v, _ := protowire.ConsumeFixed64(f.raw)
	return math.Float64frombits(v), nil
}

func (d *decoder) optDouble(f field, path string) (*float64, error) {
	v, err := d.double(f, path)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (d *decoder) varint(f field, path string) (uint64, error) {
	if err := d.wantType(f, path, protowire.VarintType); err != nil {
		return 0, err
	}
	v, _ := protowire.ConsumeVarint(f.raw)
	return v, nil
}

func (d *decoder) int32(f field, path string) (int, error) {
	v, err := d.varint(f, path)
	if err != nil {
		return 0, err
	}
	return int(int32(v)), nil
}

func (d *decoder) timestamp(f field, path string) (*time.Time, error) {
	v, err := d.varint(f, path)
	if err != nil {
		return nil, err
	}
	t := time.Unix(0, int64(v)).UTC()
	return &t, nil
}

func decodeEnum[T ~string](d *decoder, f field, path string, e *schema.Enum[T]) (T, error) {
	var zero T
	v, err := d.varint(f, path)
	if err != nil || v == 0 {
		return zero, err
	}
	sym, ok := e.Symbol(int(v - 1))
	if !ok || v > math.MaxInt32 {
		return zero, d.mismatch(f.valueOffset, path, fmt.Errorf("%d is not a %s number", v, e.Name()))
	}
	return sym, nil
}

func (d *decoder) document(m message) (*domain.Document, error) {
	doc := &domain.Document{}
	err := d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case docID:
			doc.ID, err = d.str(f, "id")
		case docName:
			doc.Name, err = d.str(f, "name")
		case docAuthor:
			doc.Author, err = d.str(f, "author")
		case docSoftware:
			doc.Software, err = d.str(f, "software")
		case docFileVersion:
			doc.FileVersion, err = d.str(f, "fileVersion")
		case docComments:
			doc.Comments, err = d.str(f, "comments")
		case docSchemaVersion:
			doc.SchemaVersion, err = d.version(f, "schemaVersion")
		case docCreatedAt:
			doc.CreatedAt, err = d.timestamp(f, "createdAt")
		case docModifiedAt:
			doc.ModifiedAt, err = d.timestamp(f, "modifiedAt")
		case docProject:
			doc.Project, err = d.project(f, "project")
		case docMaterials:
			var mat domain.Material
			mat, err = d.material(f, schema.Index("materials", len(doc.Materials)))
			if err == nil {
				doc.Materials = append(doc.Materials, mat)
			}
		case docModels:
			var gm domain.GroundModel
			gm, err = d.model(f, schema.ModelPath(len(doc.Models)))
			if err == nil {
				doc.Models = append(doc.Models, gm)
			}
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *decoder) version(f field, path string) (domain.SchemaVersion, error) {
	var v domain.SchemaVersion
	m, err := d.sub(f, path)
	if err != nil {
		return v, err
	}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case versionMajor:
			v.Major, err = d.int32(f, join(path, "major"))
		case versionMinor:
			v.Minor, err = d.int32(f, join(path, "minor"))
		case versionPatch:
			v.Patch, err = d.int32(f, join(path, "patch"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	return v, err
}

func (d *decoder) project(f field, path string) (*domain.Project, error) {
	m, err := d.sub(f, path)
	if err != nil {
		return nil, err
	}
	p := &domain.Project{}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case projectID:
			p.ID, err = d.str(f, join(path, "id"))
		case projectName:
			p.Name, err = d.str(f, join(path, "name"))
		case projectClient:
			p.Client, err = d.str(f, join(path, "client"))
		case projectContractor:
			p.Contractor, err = d.str(f, join(path, "contractor"))
		case projectDescription:
			p.Description, err = d.str(f, join(path, "description"))
		case projectLocation:
			p.Location, err = d.location(f, join(path, "location"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (d *decoder) location(f field, path string) (*domain.Location, error) {
	m, err := d.sub(f, path)
	if err != nil {
		return nil, err
	}
	l := &domain.Location{}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case locationName:
			l.Name, err = d.str(f, join(path, "name"))
		case locationCountry:
			l.Country, err = d.str(f, join(path, "country"))
		case locationCRS:
			l.CRS, err = d.str(f, join(path, "crs"))
		case locationCoordinates:
			l.Coordinates, err = d.lonLat(f, join(path, "coordinates"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (d *decoder) lonLat(f field, path string) (*domain.LonLat, error) {
	m, err := d.sub(f, path)
	if err != nil {
		return nil, err
	}
	c := &domain.LonLat{}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case lonLatLon:
			c.Lon, err = d.double(f, join(path, "lon"))
		case lonLatLat:
			c.Lat, err = d.double(f, join(path, "lat"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (d *decoder) material(f field, path string) (domain.Material, error) {
	var mat domain.Material
	m, err := d.sub(f, path)
	if err != nil {
		return mat, err
	}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case materialID:
			mat.ID, err = d.str(f, join(path, "id"))
		case materialName:
			mat.Name, err = d.str(f, join(path, "name"))
		case materialKind:
			mat.Kind, err = decodeEnum(d, f, join(path, "kind"), schema.MaterialKinds)
		case materialDescription:
			mat.Description, err = d.str(f, join(path, "description"))
		case materialGeology:
			mat.Geology, err = d.str(f, join(path, "geology"))
		case materialProperties:
			var p domain.Property
			p, err = d.property(f, schema.Index(join(path, "properties"), len(mat.Properties)))
			if err == nil {
				mat.Properties = append(mat.Properties, p)
			}
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	return mat, err
}

func (d *decoder) property(f field, path string) (domain.Property, error) {
	var p domain.Property
	m, err := d.sub(f, path)
	if err != nil {
		return p, err
	}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case propertyCode:
			var code string
			code, err = d.str(f, join(path, "code"))
			p.Code = domain.ParameterCodeOf(code)
		case propertyNumber:
			var v float64
			v, err = d.double(f, join(path, "value"))
			p.Value = domain.NumericValue{Value: v}
		case propertyText:
			var v string
			v, err = d.str(f, join(path, "value"))
			p.Value = domain.TextValue{Value: v}
		case propertyRange:
			p.Value, err = d.rangeValue(f, join(path, "value"))
		case propertyUnit:
			p.Unit, err = d.str(f, join(path, "unit"))
		case propertySource:
			p.Source, err = decodeEnum(d, f, join(path, "source"), schema.PropertySources)
		case propertyMethod:
			p.Method, err = d.str(f, join(path, "method"))
		case propertyCaseID:
			p.CaseID, err = d.str(f, join(path, "caseId"))
		case propertyRemarks:
			p.Remarks, err = d.str(f, join(path, "remarks"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	return p, err
}

func (d *decoder) rangeValue(f field, path string) (domain.PropertyValue, error) {
	m, err := d.sub(f, path)
	if err != nil {
		return nil, err
	}
	var r domain.RangeValue
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case rangeMin:
			r.Min, err = d.double(f, join(path, "min"))
		case rangeMax:
			r.Max, err = d.double(f, join(path, "max"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (d *decoder) model(f field, path string) (domain.GroundModel, error) {
	var gm domain.GroundModel
	m, err := d.sub(f, path)
	if err != nil {
		return gm, err
	}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case modelID:
			gm.ID, err = d.str(f, join(path, "id"))
		case modelName:
			gm.Name, err = d.str(f, join(path, "name"))
		case modelDescription:
			gm.Description, err = d.str(f, join(path, "description"))
		case modelType:
			gm.Type, err = decodeEnum(d, f, join(path, "type"), schema.ModelTypes)
		case modelDimension:
			gm.Dimension, err = decodeEnum(d, f, join(path, "dimension"), schema.Dimensions)
		case modelCRS:
			gm.CRS, err = d.str(f, join(path, "crs"))
		case modelBoundary:
			gm.Boundary, err = d.boundary(f, join(path, "boundary"))
		case modelMaterials:
			var mat domain.Material
			mat, err = d.material(f, schema.Index(join(path, "materials"), len(gm.Materials)))
			if err == nil {
				gm.Materials = append(gm.Materials, mat)
			}
		case modelComponents:
			var c domain.ModelComponent
			c, err = d.component(f, schema.Index(join(path, "components"), len(gm.Components)))
			if err == nil {
				gm.Components = append(gm.Components, c)
			}
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	return gm, err
}

func (d *decoder) boundary(f field, path string) (*domain.Boundary, error) {
	m, err := d.sub(f, path)
	if err != nil {
		return nil, err
	}
	b := &domain.Boundary{}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case boundaryMinX:
			b.MinX, err = d.double(f, join(path, "minX"))
		case boundaryMaxX:
			b.MaxX, err = d.double(f, join(path, "maxX"))
		case boundaryMinY:
			b.MinY, err = d.double(f, join(path, "minY"))
		case boundaryMaxY:
			b.MaxY, err = d.double(f, join(path, "maxY"))
		case boundaryTop:
			b.Top, err = d.optDouble(f, join(path, "top"))
		case boundaryBottom:
			b.Bottom, err = d.optDouble(f, join(path, "bottom"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (d *decoder) component(f field, path string) (domain.ModelComponent, error) {
	var c domain.ModelComponent
	m, err := d.sub(f, path)
	if err != nil {
		return c, err
	}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case componentID:
			c.ID, err = d.str(f, join(path, "id"))
		case componentName:
			c.Name, err = d.str(f, join(path, "name"))
		case componentKind:
			c.Kind, err = decodeEnum(d, f, join(path, "kind"), schema.ComponentKinds)
		case componentMaterialRef:
			c.MaterialID, err = d.str(f, join(path, "materialRef"))
		case componentGeometry:
			c.Geometry, err = d.geometry(f, join(path, "geometry"))
		case componentTop:
			c.Top, err = d.optDouble(f, join(path, "top"))
		case componentBottom:
			c.Bottom, err = d.optDouble(f, join(path, "bottom"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	return c, err
}

func (d *decoder) geometry(f field, path string) (domain.Geometry, error) {
	m, err := d.sub(f, path)
	if err != nil {
		return nil, err
	}
	var g schema.FlatGeometry
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case geomKind:
			g.Kind, err = decodeEnum(d, f, join(path, "kind"), schema.GeometryKinds)
		case geomCRS:
			g.CRS, err = d.str(f, join(path, "crs"))
		case geomCoords:
			g.Coords, err = d.packedDoubles(f, join(path, "coords"), g.Coords)
		case geomRingSizes:
			g.RingSizes, err = d.packedInt32s(f, join(path, "ringSizes"), g.RingSizes)
		case geomWKT:
			g.WKT, err = d.str(f, join(path, "wkt"))
		case geomWKB:
			g.WKB, err = d.bytes(f, join(path, "wkb"))
		case geomData:
			g.Data, err = d.bytes(f, join(path, "data"))
		case geomMeshFormat:
			g.MeshFormat, err = d.str(f, join(path, "meshFormat"))
		case geomVertexCount:
			g.VertexCount, err = d.int32(f, join(path, "vertexCount"))
		case geomFaceCount:
			g.FaceCount, err = d.int32(f, join(path, "faceCount"))
		case geomBounds:
			g.Bounds, err = d.bounds(f, join(path, "bounds"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if g.Kind == "" {
		return nil, d.malformed(m.base, path, errors.New("geometry without a kind"))
	}
	geom, err := g.Geometry(d.format, path)
	if err != nil {
		var ce *domain.CodecError
		if errors.As(err, &ce) && ce.Offset < 0 {
			ce.Offset = m.base
		}
		return nil, err
	}
	return geom, nil
}

func (d *decoder) bounds(f field, path string) (*domain.BoundingBox, error) {
	m, err := d.sub(f, path)
	if err != nil {
		return nil, err
	}
	b := &domain.BoundingBox{}
	err = d.walk(m, func(f field) error {
		var err error
		switch f.num {
		case boxMinX:
			b.MinX, err = d.double(f, join(path, "minX"))
		case boxMinY:
			b.MinY, err = d.double(f, join(path, "minY"))
		case boxMinZ:
			b.MinZ, err = d.double(f, join(path, "minZ"))
		case boxMaxX:
			b.MaxX, err = d.double(f, join(path, "maxX"))
		case boxMaxY:
			b.MaxY, err = d.double(f, join(path, "maxY"))
		case boxMaxZ:
			b.MaxZ, err = d.double(f, join(path, "maxZ"))
		default:
			err = d.unknown(m, f)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// packedDoubles accepts the packed and the unpacked encoding.
func (d *decoder) packedDoubles(f field, path string, dst []float64) ([]float64, error) {
	if f.typ == protowire.Fixed64Type {
		v, err := d.double(f, path)
		return append(dst, v), err
	}
	v, off, err := d.payload(f, path)
	if err != nil {
		return nil, err
	}
	if len(v)%8 != 0 {
		return nil, d.malformed(off, path, fmt.Errorf("packed doubles of %d bytes", len(v)))
	}
	for len(v) > 0 {
		bits, n := protowire.ConsumeFixed64(v)
		dst = append(dst, math.Float64frombits(bits))
		v = v[n:]
	}
	return dst, nil
}

func (d *decoder) packedInt32s(f field, path string, dst []int32) ([]int32, error) {
	if f.typ == protowire.VarintType {
		v, err := d.varint(f, path)
		return append(dst, int32(v)), err
	}
	v, off, err := d.payload(f, path)
	if err != nil {
		return nil, err
	}
	for pos := 0; pos < len(v); {
		x, n := protowire.ConsumeVarint(v[pos:])
		if n < 0 {
			return nil, d.malformed(off+int64(pos), path, protowire.ParseError(n))
		}
		dst = append(dst, int32(x))
		pos += n
	}
	return dst, nil
}
