package text

import (
	"fmt"
	"math"
	"time"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/geometry"
	"github.com/custodia-labs/agsi-cli/internal/serialization/schema"
)

// SchemaName is written into every canonical document.
const SchemaName = "AGSi"

// The DTOs below fix the canonical key order: struct fields marshal in
// declaration order, map keys are sorted by the encoders.

type documentDTO struct {
	Schema    schemaDTO     `json:"schema" yaml:"schema"`
	File      fileDTO       `json:"file" yaml:"file"`
	Project   *projectDTO   `json:"project,omitempty" yaml:"project,omitempty"`
	Materials []materialDTO `json:"materials,omitempty" yaml:"materials,omitempty"`
	Models    []modelDTO    `json:"models,omitempty" yaml:"models,omitempty"`
}

type schemaDTO struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

type fileDTO struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
	Software    string `json:"software,omitempty" yaml:"software,omitempty"`
	FileVersion string `json:"fileVersion,omitempty" yaml:"fileVersion,omitempty"`
	Comments    string `json:"comments,omitempty" yaml:"comments,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	ModifiedAt  string `json:"modifiedAt,omitempty" yaml:"modifiedAt,omitempty"`
}

type projectDTO struct {
	ID          string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	Client      string       `json:"client,omitempty" yaml:"client,omitempty"`
	Contractor  string       `json:"contractor,omitempty" yaml:"contractor,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Location    *locationDTO `json:"location,omitempty" yaml:"location,omitempty"`
}

type locationDTO struct {
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Country     string     `json:"country,omitempty" yaml:"country,omitempty"`
	CRS         string     `json:"crs,omitempty" yaml:"crs,omitempty"`
	Coordinates *lonLatDTO `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

type lonLatDTO struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

type materialDTO struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Kind        string        `json:"kind" yaml:"kind"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Geology     string        `json:"geology,omitempty" yaml:"geology,omitempty"`
	Properties  []propertyDTO `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type propertyDTO struct {
	Code    string    `json:"code" yaml:"code"`
	Value   *valueDTO `json:"value,omitempty" yaml:"value,omitempty"`
	Unit    string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Source  string    `json:"source,omitempty" yaml:"source,omitempty"`
	Method  string    `json:"method,omitempty" yaml:"method,omitempty"`
	CaseID  string    `json:"caseId,omitempty" yaml:"caseId,omitempty"`
	Remarks string    `json:"remarks,omitempty" yaml:"remarks,omitempty"`
}

// valueDTO holds exactly one of Number, Text or the Min/Max pair.
type valueDTO struct {
	Number *float64 `json:"number,omitempty" yaml:"number,omitempty"`
	Text   *string  `json:"text,omitempty" yaml:"text,omitempty"`
	Min    *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

type modelDTO struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string         `json:"type" yaml:"type"`
	Dimension   string         `json:"dimension" yaml:"dimension"`
	CRS         string         `json:"crs,omitempty" yaml:"crs,omitempty"`
	Boundary    *boundaryDTO   `json:"boundary,omitempty" yaml:"boundary,omitempty"`
	Materials   []materialDTO  `json:"materials,omitempty" yaml:"materials,omitempty"`
	Components  []componentDTO `json:"components,omitempty" yaml:"components,omitempty"`
}

type boundaryDTO struct {
	MinX   float64  `json:"minX" yaml:"minX"`
	MaxX   float64  `json:"maxX" yaml:"maxX"`
	MinY   float64  `json:"minY" yaml:"minY"`
	MaxY   float64  `json:"maxY" yaml:"maxY"`
	Top    *float64 `json:"top,omitempty" yaml:"top,omitempty"`
	Bottom *float64 `json:"bottom,omitempty" yaml:"bottom,omitempty"`
}

type componentDTO struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Kind        string            `json:"kind" yaml:"kind"`
	MaterialRef string            `json:"materialRef" yaml:"materialRef"`
	Geometry    *geometryDTO      `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Top         *float64          `json:"top,omitempty" yaml:"top,omitempty"`
	Bottom      *float64          `json:"bottom,omitempty" yaml:"bottom,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// geometryDTO embeds the geometry codec output. Shape is the codec's text of
// the coordinates; WKT and WKB are the optional parallel encodings carried by
// the geometry itself; Data is the base64 surface payload.
type geometryDTO struct {
	Type        string          `json:"type" yaml:"type"`
	CRS         string          `json:"crs,omitempty" yaml:"crs,omitempty"`
	Shape       string          `json:"shape,omitempty" yaml:"shape,omitempty"`
	WKT         string          `json:"wkt,omitempty" yaml:"wkt,omitempty"`
	WKB         string          `json:"wkb,omitempty" yaml:"wkb,omitempty"`
	MeshFormat  string          `json:"meshFormat,omitempty" yaml:"meshFormat,omitempty"`
	VertexCount int             `json:"vertexCount,omitempty" yaml:"vertexCount,omitempty"`
	FaceCount   int             `json:"faceCount,omitempty" yaml:"faceCount,omitempty"`
	Data        string          `json:"data,omitempty" yaml:"data,omitempty"`
	Bounds      *boundingBoxDTO `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

type boundingBoxDTO struct {
	MinX float64 `json:"minX" yaml:"minX"`
	MinY float64 `json:"minY" yaml:"minY"`
	MinZ float64 `json:"minZ" yaml:"minZ"`
	MaxX float64 `json:"maxX" yaml:"maxX"`
	MaxY float64 `json:"maxY" yaml:"maxY"`
	MaxZ float64 `json:"maxZ" yaml:"maxZ"`
}

// toDTO converts doc. It fails with a path on values text cannot carry.
func toDTO(format string, doc *domain.Document) (*documentDTO, error) {
	out := &documentDTO{
		Schema: schemaDTO{Name: SchemaName, Version: doc.SchemaVersion.String()},
		File: fileDTO{
			ID:          doc.ID,
			Name:        doc.Name,
			Author:      doc.Author,
			Software:    doc.Software,
			FileVersion: doc.FileVersion,
			Comments:    doc.Comments,
			CreatedAt:   formatTime(doc.CreatedAt),
			ModifiedAt:  formatTime(doc.ModifiedAt),
		},
	}
	if p := doc.Project; p != nil {
		out.Project = &projectDTO{
			ID: p.ID, Name: p.Name, Client: p.Client, Contractor: p.Contractor, Description: p.Description,
		}
		if l := p.Location; l != nil {
			out.Project.Location = &locationDTO{Name: l.Name, Country: l.Country, CRS: l.CRS}
			if c := l.Coordinates; c != nil {
				out.Project.Location.Coordinates = &lonLatDTO{Lon: c.Lon, Lat: c.Lat}
			}
		}
	}

	var err error
	if out.Materials, err = materialsToDTO(format, "materials", doc.Materials); err != nil {
		return nil, err
	}
	for i := range doc.Models {
		m, err := modelToDTO(format, i, &doc.Models[i])
		if err != nil {
			return nil, err
		}
		out.Models = append(out.Models, m)
	}
	return out, nil
}

func materialsToDTO(format, prefix string, mats []domain.Material) ([]materialDTO, error) {
	var out []materialDTO
	for i := range mats {
		m := &mats[i]
		path := schema.Index(prefix, i)
		dto := materialDTO{
			ID: m.ID, Name: m.Name, Kind: string(m.Kind), Description: m.Description, Geology: m.Geology,
		}
		for k, p := range m.Properties {
			v, err := valueToDTO(format, schema.Index(path+".properties", k)+".value", p.Value)
			if err != nil {
				return nil, err
			}
			dto.Properties = append(dto.Properties, propertyDTO{
				Code:    p.Code.String(),
				Value:   v,
				Unit:    p.Unit,
				Source:  string(p.Source),
				Method:  p.Method,
				CaseID:  p.CaseID,
				Remarks: p.Remarks,
			})
		}
		out = append(out, dto)
	}
	return out, nil
}

func valueToDTO(format, path string, v domain.PropertyValue) (*valueDTO, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case domain.NumericValue:
		if err := finite(format, path, v.Value); err != nil {
			return nil, err
		}
		n := v.Value
		return &valueDTO{Number: &n}, nil
	case domain.TextValue:
		s := v.Value
		return &valueDTO{Text: &s}, nil
	case domain.RangeValue:
		if err := finite(format, path+".min", v.Min); err != nil {
			return nil, err
		}
		if err := finite(format, path+".max", v.Max); err != nil {
			return nil, err
		}
		lo, hi := v.Min, v.Max
		return &valueDTO{Min: &lo, Max: &hi}, nil
	default:
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, path, fmt.Errorf("value type %T", v))
	}
}

func modelToDTO(format string, i int, m *domain.GroundModel) (modelDTO, error) {
	path := schema.ModelPath(i)
	out := modelDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Type:        string(m.Type),
		Dimension:   string(m.Dimension),
		CRS:         m.CRS,
	}
	if b := m.Boundary; b != nil {
		out.Boundary = &boundaryDTO{
			MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY,
			Top: copyFloat(b.Top), Bottom: copyFloat(b.Bottom),
		}
	}
	var err error
	if out.Materials, err = materialsToDTO(format, path+".materials", m.Materials); err != nil {
		return modelDTO{}, err
	}
	for j := range m.Components {
		c := &m.Components[j]
		g, err := geometryToDTO(format, schema.ComponentPath(i, j)+".geometry", c.Geometry)
		if err != nil {
			return modelDTO{}, err
		}
		dto := componentDTO{
			ID:          c.ID,
			Name:        c.Name,
			Kind:        string(c.Kind),
			MaterialRef: c.MaterialID,
			Geometry:    g,
			Top:         copyFloat(c.Top),
			Bottom:      copyFloat(c.Bottom),
		}
		if len(c.Attributes) > 0 {
			dto.Attributes = make(map[string]string, len(c.Attributes))
			for k, v := range c.Attributes {
				dto.Attributes[k] = v
			}
		}
		out.Components = append(out.Components, dto)
	}
	return out, nil
}

func geometryToDTO(format, path string, g domain.Geometry) (*geometryDTO, error) {
	if g == nil {
		return nil, nil
	}
	out := &geometryDTO{Type: string(g.Kind()), CRS: g.CRSID()}
	var wkt string
	var wkb []byte
	switch g := g.(type) {
	case *domain.Point:
		wkt, wkb = g.WKT, g.WKB
	case *domain.LineString:
		wkt, wkb = g.WKT, g.WKB
	case *domain.Polygon:
		wkt, wkb = g.WKT, g.WKB
	case *domain.Surface:
		out.MeshFormat = g.MeshFormat
		out.VertexCount = g.VertexCount
		out.FaceCount = g.FaceCount
		if len(g.Data) > 0 {
			out.Data = geometry.EncodeBase64(g.Data)
		}
		if b := g.Bounds; b != nil {
			out.Bounds = &boundingBoxDTO{MinX: b.MinX, MinY: b.MinY, MinZ: b.MinZ, MaxX: b.MaxX, MaxY: b.MaxY, MaxZ: b.MaxZ}
		}
		return out, nil
	}

	shape, err := geometry.EncodeText(g)
	if err != nil {
		return nil, domain.NewEncodeError(format, domain.ErrSchemaMismatch, path, err)
	}
	out.Shape = shape
	out.WKT = wkt
	if len(wkb) > 0 {
		out.WKB = geometry.EncodeBase64(wkb)
	}
	return out, nil
}

// fromDTO converts a decoded DTO. Enumeration strings are taken as is.
func fromDTO(format string, in *documentDTO) (*domain.Document, error) {
	if in.Schema.Name != "" && in.Schema.Name != SchemaName {
		return nil, domain.NewDecodeError(format, domain.ErrSchemaMismatch, -1, "schema.name",
			fmt.Errorf("unexpected schema %q", in.Schema.Name))
	}
	version := domain.CurrentSchemaVersion
	if in.Schema.Version != "" {
		v, err := domain.ParseSchemaVersion(in.Schema.Version)
		if err != nil {
			return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, -1, "schema.version", err)
		}
		version = v
	}

	doc := &domain.Document{
		ID:            in.File.ID,
		Name:          in.File.Name,
		Author:        in.File.Author,
		Software:      in.File.Software,
		FileVersion:   in.File.FileVersion,
		Comments:      in.File.Comments,
		SchemaVersion: version,
	}
	var err error
	if doc.CreatedAt, err = parseTime(format, "file.createdAt", in.File.CreatedAt); err != nil {
		return nil, err
	}
	if doc.ModifiedAt, err = parseTime(format, "file.modifiedAt", in.File.ModifiedAt); err != nil {
		return nil, err
	}

	if p := in.Project; p != nil {
		doc.Project = &domain.Project{
			ID: p.ID, Name: p.Name, Client: p.Client, Contractor: p.Contractor, Description: p.Description,
		}
		if l := p.Location; l != nil {
			doc.Project.Location = &domain.Location{Name: l.Name, Country: l.Country, CRS: l.CRS}
			if c := l.Coordinates; c != nil {
				doc.Project.Location.Coordinates = &domain.LonLat{Lon: c.Lon, Lat: c.Lat}
			}
		}
	}

	if doc.Materials, err = materialsFromDTO(format, "materials", in.Materials); err != nil {
		return nil, err
	}
	for i := range in.Models {
		m, err := modelFromDTO(format, i, &in.Models[i])
		if err != nil {
			return nil, err
		}
		doc.Models = append(doc.Models, m)
	}
	return doc, nil
}

func materialsFromDTO(format, prefix string, in []materialDTO) ([]domain.Material, error) {
	var out []domain.Material
	for i := range in {
		m := &in[i]
		path := schema.Index(prefix, i)
		mat := domain.Material{
			ID: m.ID, Name: m.Name, Kind: domain.MaterialKind(m.Kind), Description: m.Description, Geology: m.Geology,
		}
		for k := range m.Properties {
			p := &m.Properties[k]
			v, err := valueFromDTO(format, schema.Index(path+".properties", k)+".value", p.Value)
			if err != nil {
				return nil, err
			}
			mat.Properties = append(mat.Properties, domain.Property{
				Code:    domain.ParameterCodeOf(p.Code),
				Value:   v,
				Unit:    p.Unit,
				Source:  domain.PropertySource(p.Source),
				Method:  p.Method,
				CaseID:  p.CaseID,
				Remarks: p.Remarks,
			})
		}
		out = append(out, mat)
	}
	return out, nil
}

func valueFromDTO(format, path string, v *valueDTO) (domain.PropertyValue, error) {
	if v == nil {
		return nil, nil
	}
	hasRange := v.Min != nil || v.Max != nil
	switch {
	case v.Number != nil && v.Text == nil && !hasRange:
		return domain.NumericValue{Value: *v.Number}, nil
	case v.Text != nil && v.Number == nil && !hasRange:
		return domain.TextValue{Value: *v.Text}, nil
	case v.Min != nil && v.Max != nil && v.Number == nil && v.Text == nil:
		return domain.RangeValue{Min: *v.Min, Max: *v.Max}, nil
	default:
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, -1, path,
			fmt.Errorf("value must hold exactly one of number, text or min/max"))
	}
}

func modelFromDTO(format string, i int, in *modelDTO) (domain.GroundModel, error) {
	path := schema.ModelPath(i)
	out := domain.GroundModel{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Type:        domain.ModelType(in.Type),
		Dimension:   domain.Dimension(in.Dimension),
		CRS:         in.CRS,
	}
	if b := in.Boundary; b != nil {
		out.Boundary = &domain.Boundary{
			MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY,
			Top: copyFloat(b.Top), Bottom: copyFloat(b.Bottom),
		}
	}
	var err error
	if out.Materials, err = materialsFromDTO(format, path+".materials", in.Materials); err != nil {
		return domain.GroundModel{}, err
	}
	for j := range in.Components {
		c := &in.Components[j]
		g, err := geometryFromDTO(format, schema.ComponentPath(i, j)+".geometry", c.Geometry)
		if err != nil {
			return domain.GroundModel{}, err
		}
		comp := domain.ModelComponent{
			ID:         c.ID,
			Name:       c.Name,
			Kind:       domain.ComponentKind(c.Kind),
			MaterialID: c.MaterialRef,
			Geometry:   g,
			Top:        copyFloat(c.Top),
			Bottom:     copyFloat(c.Bottom),
		}
		if len(c.Attributes) > 0 {
			comp.Attributes = c.Attributes
		}
		out.Components = append(out.Components, comp)
	}
	return out, nil
}

func geometryFromDTO(format, path string, in *geometryDTO) (domain.Geometry, error) {
	if in == nil {
		return nil, nil
	}
	kind := domain.GeometryKind(in.Type)
	if kind == domain.GeometryKindSurface {
		s := &domain.Surface{
			MeshFormat:  in.MeshFormat,
			VertexCount: in.VertexCount,
			FaceCount:   in.FaceCount,
			CRS:         in.CRS,
		}
		if in.Data != "" {
			data, err := geometry.DecodeBase64(in.Data)
			if err != nil {
				return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, -1, path+".data", err)
			}
			s.Data = data
		}
		if b := in.Bounds; b != nil {
			s.Bounds = &domain.BoundingBox{MinX: b.MinX, MinY: b.MinY, MinZ: b.MinZ, MaxX: b.MaxX, MaxY: b.MaxY, MaxZ: b.MaxZ}
		}
		return s, nil
	}
	if !kind.IsValid() {
		return nil, domain.NewDecodeError(format, domain.ErrSchemaMismatch, -1, path+".type",
			fmt.Errorf("unknown geometry type %q", in.Type))
	}

	g, err := geometry.DecodeText(in.Shape)
	if err != nil {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, -1, path+".shape", err)
	}
	if g.Kind() != kind {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, -1, path+".shape",
			fmt.Errorf("shape is %s, type says %s", g.Kind(), kind))
	}
	var wkb []byte
	if in.WKB != "" {
		if wkb, err = geometry.DecodeBase64(in.WKB); err != nil {
			return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, -1, path+".wkb", err)
		}
	}
	switch g := g.(type) {
	case *domain.Point:
		g.CRS, g.WKT, g.WKB = in.CRS, in.WKT, wkb
	case *domain.LineString:
		g.CRS, g.WKT, g.WKB = in.CRS, in.WKT, wkb
	case *domain.Polygon:
		g.CRS, g.WKT, g.WKB = in.CRS, in.WKT, wkb
	}
	return g, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(format, path, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, -1, path, err)
	}
	t = t.UTC()
	return &t, nil
}

func finite(format, path string, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.NewEncodeError(format, domain.ErrSchemaMismatch, path, fmt.Errorf("%v has no text form", f))
	}
	return nil
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
