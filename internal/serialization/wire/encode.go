package wire

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/serialization/schema"
)

// Field numbers of agsi.proto.
const (
	docID            protowire.Number = 1
	docName          protowire.Number = 2
	docAuthor        protowire.Number = 3
	docSoftware      protowire.Number = 4
	docFileVersion   protowire.Number = 5
	docComments      protowire.Number = 6
	docSchemaVersion protowire.Number = 7
	docCreatedAt     protowire.Number = 8
	docModifiedAt    protowire.Number = 9
	docProject       protowire.Number = 10
	docMaterials     protowire.Number = 11
	docModels        protowire.Number = 12

	versionMajor protowire.Number = 1
	versionMinor protowire.Number = 2
	versionPatch protowire.Number = 3

	projectID          protowire.Number = 1
	projectName        protowire.Number = 2
	projectClient      protowire.Number = 3
	projectContractor  protowire.Number = 4
	projectDescription protowire.Number = 5
	projectLocation    protowire.Number = 6

	locationName        protowire.Number = 1
	locationCountry     protowire.Number = 2
	locationCRS         protowire.Number = 3
	locationCoordinates protowire.Number = 4

	lonLatLon protowire.Number = 1
	lonLatLat protowire.Number = 2

	materialID          protowire.Number = 1
	materialName        protowire.Number = 2
	materialKind        protowire.Number = 3
	materialDescription protowire.Number = 4
	materialGeology     protowire.Number = 5
	materialProperties  protowire.Number = 6

	rangeMin protowire.Number = 1
	rangeMax protowire.Number = 2

	propertyCode    protowire.Number = 1
	propertyNumber  protowire.Number = 2
	propertyText    protowire.Number = 3
	propertyRange   protowire.Number = 4
	propertyUnit    protowire.Number = 5
	propertySource  protowire.Number = 6
	propertyMethod  protowire.Number = 7
	propertyCaseID  protowire.Number = 8
	propertyRemarks protowire.Number = 9

	boundaryMinX   protowire.Number = 1
	boundaryMaxX   protowire.Number = 2
	boundaryMinY   protowire.Number = 3
	boundaryMaxY   protowire.Number = 4
	boundaryTop    protowire.Number = 5
	boundaryBottom protowire.Number = 6

	modelID          protowire.Number = 1
	modelName        protowire.Number = 2
	modelDescription protowire.Number = 3
	modelType        protowire.Number = 4
	modelDimension   protowire.Number = 5
	modelCRS         protowire.Number = 6
	modelBoundary    protowire.Number = 7
	modelMaterials   protowire.Number = 8
	modelComponents  protowire.Number = 9

	componentID          protowire.Number = 1
	componentName        protowire.Number = 2
	componentKind        protowire.Number = 3
	componentMaterialRef protowire.Number = 4
	componentGeometry    protowire.Number = 5
	componentTop         protowire.Number = 6
	componentBottom      protowire.Number = 7

	boxMinX protowire.Number = 1
	boxMinY protowire.Number = 2
	boxMinZ protowire.Number = 3
	boxMaxX protowire.Number = 4
	boxMaxY protowire.Number = 5
	boxMaxZ protowire.Number = 6

	geomKind        protowire.Number = 1
	geomCRS         protowire.Number = 2
	geomCoords      protowire.Number = 3
	geomRingSizes   protowire.Number = 4
	geomWKT         protowire.Number = 5
	geomWKB         protowire.Number = 6
	geomData        protowire.Number = 7
	geomMeshFormat  protowire.Number = 8
	geomVertexCount protowire.Number = 9
	geomFaceCount   protowire.Number = 10
	geomBounds      protowire.Number = 11
)

// Fields are appended in field-number order so encoding is deterministic.

func appendDocument(b []byte, doc *domain.Document) []byte {
	b = appendString(b, docID, doc.ID)
	b = appendString(b, docName, doc.Name)
	b = appendString(b, docAuthor, doc.Author)
	b = appendString(b, docSoftware, doc.Software)
	b = appendString(b, docFileVersion, doc.FileVersion)
	b = appendString(b, docComments, doc.Comments)

	var v []byte
	v = appendVarint(v, versionMajor, uint64(int64(doc.SchemaVersion.Major)))
	v = appendVarint(v, versionMinor, uint64(int64(doc.SchemaVersion.Minor)))
	v = appendVarint(v, versionPatch, uint64(int64(doc.SchemaVersion.Patch)))
	b = appendMessage(b, docSchemaVersion, v)

	if doc.CreatedAt != nil {
		b = protowire.AppendTag(b, docCreatedAt, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(doc.CreatedAt.UnixNano()))
	}
	if doc.ModifiedAt != nil {
		b = protowire.AppendTag(b, docModifiedAt, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(doc.ModifiedAt.UnixNano()))
	}
	if doc.Project != nil {
		b = appendMessage(b, docProject, appendProject(nil, doc.Project))
	}
	for i := range doc.Materials {
		b = appendMessage(b, docMaterials, appendMaterial(nil, &doc.Materials[i]))
	}
	for i := range doc.Models {
		b = appendMessage(b, docModels, appendModel(nil, &doc.Models[i]))
	}
	return b
}

func appendProject(b []byte, p *domain.Project) []byte {
	b = appendString(b, projectID, p.ID)
	b = appendString(b, projectName, p.Name)
	b = appendString(b, projectClient, p.Client)
	b = appendString(b, projectContractor, p.Contractor)
	b = appendString(b, projectDescription, p.Description)
	if l := p.Location; l != nil {
		var lb []byte
		lb = appendString(lb, locationName, l.Name)
		lb = appendString(lb, locationCountry, l.Country)
		lb = appendString(lb, locationCRS, l.CRS)
		if c := l.Coordinates; c != nil {
			var cb []byte
			cb = appendDouble(cb, lonLatLon, c.Lon)
			cb = appendDouble(cb, lonLatLat, c.Lat)
			lb = appendMessage(lb, locationCoordinates, cb)
		}
		b = appendMessage(b, projectLocation, lb)
	}
	return b
}

func appendMaterial(b []byte, m *domain.Material) []byte {
	b = appendString(b, materialID, m.ID)
	b = appendString(b, materialName, m.Name)
	b = appendVarint(b, materialKind, enumNumber(schema.MaterialKinds, m.Kind))
	b = appendString(b, materialDescription, m.Description)
	b = appendString(b, materialGeology, m.Geology)
	for _, p := range m.Properties {
		b = appendMessage(b, materialProperties, appendProperty(nil, &p))
	}
	return b
}

func appendProperty(b []byte, p *domain.Property) []byte {
	b = appendString(b, propertyCode, p.Code.String())
	// Oneof members carry presence, so zero values are written.
	switch v := p.Value.(type) {
	case domain.NumericValue:
		b = protowire.AppendTag(b, propertyNumber, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v.Value))
	case domain.TextValue:
		b = protowire.AppendTag(b, propertyText, protowire.BytesType)
		b = protowire.AppendString(b, v.Value)
	case domain.RangeValue:
		var rb []byte
		rb = appendDouble(rb, rangeMin, v.Min)
		rb = appendDouble(rb, rangeMax, v.Max)
		b = appendMessage(b, propertyRange, rb)
	}
	b = appendString(b, propertyUnit, p.Unit)
	b = appendVarint(b, propertySource, enumNumber(schema.PropertySources, p.Source))
	b = appendString(b, propertyMethod, p.Method)
	b = appendString(b, propertyCaseID, p.CaseID)
	b = appendString(b, propertyRemarks, p.Remarks)
	return b
}

func appendModel(b []byte, m *domain.GroundModel) []byte {
	b = appendString(b, modelID, m.ID)
	b = appendString(b, modelName, m.Name)
	b = appendString(b, modelDescription, m.Description)
	b = appendVarint(b, modelType, enumNumber(schema.ModelTypes, m.Type))
	b = appendVarint(b, modelDimension, enumNumber(schema.Dimensions, m.Dimension))
	b = appendString(b, modelCRS, m.CRS)
	if bd := m.Boundary; bd != nil {
		var bb []byte
		bb = appendDouble(bb, boundaryMinX, bd.MinX)
		bb = appendDouble(bb, boundaryMaxX, bd.MaxX)
		bb = appendDouble(bb, boundaryMinY, bd.MinY)
		bb = appendDouble(bb, boundaryMaxY, bd.MaxY)
		bb = appendOptDouble(bb, boundaryTop, bd.Top)
		bb = appendOptDouble(bb, boundaryBottom, bd.Bottom)
		b = appendMessage(b, modelBoundary, bb)
	}
	for i := range m.Materials {
		b = appendMessage(b, modelMaterials, appendMaterial(nil, &m.Materials[i]))
	}
	for i := range m.Components {
		b = appendMessage(b, modelComponents, appendComponent(nil, &m.Components[i]))
	}
	return b
}

func appendComponent(b []byte, c *domain.ModelComponent) []byte {
	b = appendString(b, componentID, c.ID)
	b = appendString(b, componentName, c.Name)
	b = appendVarint(b, componentKind, enumNumber(schema.ComponentKinds, c.Kind))
	b = appendString(b, componentMaterialRef, c.MaterialID)
	if f := schema.Flatten(c.Geometry); f != nil {
		b = appendMessage(b, componentGeometry, appendGeometry(nil, f))
	}
	b = appendOptDouble(b, componentTop, c.Top)
	b = appendOptDouble(b, componentBottom, c.Bottom)
	return b
}

func appendGeometry(b []byte, f *schema.FlatGeometry) []byte {
	b = appendVarint(b, geomKind, enumNumber(schema.GeometryKinds, f.Kind))
	b = appendString(b, geomCRS, f.CRS)
	if len(f.Coords) > 0 {
		packed := make([]byte, 0, 8*len(f.Coords))
		for _, v := range f.Coords {
			packed = protowire.AppendFixed64(packed, math.Float64bits(v))
		}
		b = protowire.AppendTag(b, geomCoords, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	if len(f.RingSizes) > 0 {
		var packed []byte
		for _, n := range f.RingSizes {
			packed = protowire.AppendVarint(packed, uint64(int64(n)))
		}
		b = protowire.AppendTag(b, geomRingSizes, protowire.BytesType)
		b = protowire.AppendBytes(b, packed)
	}
	b = appendString(b, geomWKT, f.WKT)
	b = appendBytes(b, geomWKB, f.WKB)
	b = appendBytes(b, geomData, f.Data)
	b = appendString(b, geomMeshFormat, f.MeshFormat)
	b = appendVarint(b, geomVertexCount, uint64(int64(f.VertexCount)))
	b = appendVarint(b, geomFaceCount, uint64(int64(f.FaceCount)))
	if bx := f.Bounds; bx != nil {
		var bb []byte
		bb = appendDouble(bb, boxMinX, bx.MinX)
		bb = appendDouble(bb, boxMinY, bx.MinY)
		bb = appendDouble(bb, boxMinZ, bx.MinZ)
		bb = appendDouble(bb, boxMaxX, bx.MaxX)
		bb = appendDouble(bb, boxMaxY, bx.MaxY)
		bb = appendDouble(bb, boxMaxZ, bx.MaxZ)
		b = appendMessage(b, geomBounds, bb)
	}
	return b
}

// enumNumber maps v to its wire number. Zero is "not set".
func enumNumber[T ~string](e *schema.Enum[T], v T) uint64 {
	i, ok := e.Ordinal(v)
	if !ok {
		return 0
	}
	return uint64(i + 1)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// appendDouble skips only positive zero, so -0 survives a round trip.
func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	bits := math.Float64bits(v)
	if bits == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, bits)
}

func appendOptDouble(b []byte, num protowire.Number, v *float64) []byte {
	if v == nil {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(*v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}
