package compact

import (
	"fmt"
	"time"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/serialization/schema"
)

// dimensionSymbols are the Avro names of schema.Dimensions by ordinal.
// Avro symbols cannot start with a digit.
var dimensionSymbols = []string{"ONE_D", "TWO_D", "THREE_D"}

func toRecord(doc *domain.Document) *documentRecord {
	rec := &documentRecord{
		ID:          doc.ID,
		Name:        optString(doc.Name),
		Author:      optString(doc.Author),
		Software:    optString(doc.Software),
		FileVersion: optString(doc.FileVersion),
		Comments:    optString(doc.Comments),
		SchemaVersion: versionRecord{
			Major: doc.SchemaVersion.Major,
			Minor: doc.SchemaVersion.Minor,
			Patch: doc.SchemaVersion.Patch,
		},
		CreatedAt:  optTime(doc.CreatedAt),
		ModifiedAt: optTime(doc.ModifiedAt),
		Materials:  materialsToRecords(doc.Materials),
	}
	if p := doc.Project; p != nil {
		rec.Project = &projectRecord{
			ID:          optString(p.ID),
			Name:        optString(p.Name),
			Client:      optString(p.Client),
			Contractor:  optString(p.Contractor),
			Description: optString(p.Description),
		}
		if l := p.Location; l != nil {
			rec.Project.Location = &locationRecord{
				Name:    optString(l.Name),
				Country: optString(l.Country),
				CRS:     optString(l.CRS),
			}
			if c := l.Coordinates; c != nil {
				rec.Project.Location.Coordinates = &lonLatRecord{Lon: c.Lon, Lat: c.Lat}
			}
		}
	}
	for i := range doc.Models {
		rec.Models = append(rec.Models, modelToRecord(&doc.Models[i]))
	}
	return rec
}

func materialsToRecords(mats []domain.Material) []materialRecord {
	var out []materialRecord
	for i := range mats {
		m := &mats[i]
		rec := materialRecord{
			ID:          m.ID,
			Name:        m.Name,
			Kind:        optString(string(m.Kind)),
			Description: optString(m.Description),
			Geology:     optString(m.Geology),
		}
		for _, p := range m.Properties {
			rec.Properties = append(rec.Properties, propertyRecord{
				Code:    p.Code.String(),
				Value:   valueToRecord(p.Value),
				Unit:    optString(p.Unit),
				Source:  optString(string(p.Source)),
				Method:  optString(p.Method),
				CaseID:  optString(p.CaseID),
				Remarks: optString(p.Remarks),
			})
		}
		out = append(out, rec)
	}
	return out
}

func valueToRecord(v domain.PropertyValue) *valueRecord {
	switch v := v.(type) {
	case domain.NumericValue:
		n := v.Value
		return &valueRecord{Kind: valueNumeric, Number: &n}
	case domain.TextValue:
		s := v.Value
		return &valueRecord{Kind: valueText, Text: &s}
	case domain.RangeValue:
		lo, hi := v.Min, v.Max
		return &valueRecord{Kind: valueRange, Min: &lo, Max: &hi}
	default:
		return nil
	}
}

func modelToRecord(m *domain.GroundModel) modelRecord {
	rec := modelRecord{
		ID:          m.ID,
		Name:        m.Name,
		Description: optString(m.Description),
		Type:        optString(string(m.Type)),
		Dimension:   dimensionToSymbol(m.Dimension),
		CRS:         optString(m.CRS),
		Materials:   materialsToRecords(m.Materials),
	}
	if b := m.Boundary; b != nil {
		rec.Boundary = &boundaryRecord{
			MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY,
			Top: copyFloat(b.Top), Bottom: copyFloat(b.Bottom),
		}
	}
	for j := range m.Components {
		c := &m.Components[j]
		rec.Components = append(rec.Components, componentRecord{
			ID:          c.ID,
			Name:        c.Name,
			Kind:        optString(string(c.Kind)),
			MaterialRef: c.MaterialID,
			Geometry:    geometryToRecord(c.Geometry),
			Top:         copyFloat(c.Top),
			Bottom:      copyFloat(c.Bottom),
			Attributes:  c.Attributes,
		})
	}
	return rec
}

func geometryToRecord(g domain.Geometry) *geometryRecord {
	f := schema.Flatten(g)
	if f == nil {
		return nil
	}
	return &geometryRecord{
		Kind:        string(f.Kind),
		CRS:         optString(f.CRS),
		Coords:      f.Coords,
		RingSizes:   f.RingSizes,
		WKT:         optString(f.WKT),
		WKB:         optBytes(f.WKB),
		Data:        optBytes(f.Data),
		MeshFormat:  optString(f.MeshFormat),
		VertexCount: f.VertexCount,
		FaceCount:   f.FaceCount,
	}
}

func fromRecord(format string, rec *documentRecord) (*domain.Document, error) {
	doc := &domain.Document{
		ID:          rec.ID,
		Name:        str(rec.Name),
		Author:      str(rec.Author),
		Software:    str(rec.Software),
		FileVersion: str(rec.FileVersion),
		Comments:    str(rec.Comments),
		SchemaVersion: domain.SchemaVersion{
			Major: rec.SchemaVersion.Major,
			Minor: rec.SchemaVersion.Minor,
			Patch: rec.SchemaVersion.Patch,
		},
		CreatedAt:  fromNanos(rec.CreatedAt),
		ModifiedAt: fromNanos(rec.ModifiedAt),
	}
	if p := rec.Project; p != nil {
		doc.Project = &domain.Project{
			ID:          str(p.ID),
			Name:        str(p.Name),
			Client:      str(p.Client),
			Contractor:  str(p.Contractor),
			Description: str(p.Description),
		}
		if l := p.Location; l != nil {
			doc.Project.Location = &domain.Location{Name: str(l.Name), Country: str(l.Country), CRS: str(l.CRS)}
			if c := l.Coordinates; c != nil {
				doc.Project.Location.Coordinates = &domain.LonLat{Lon: c.Lon, Lat: c.Lat}
			}
		}
	}

	var err error
	if doc.Materials, err = materialsFromRecords(format, "materials", rec.Materials); err != nil {
		return nil, err
	}
	for i := range rec.Models {
		m, err := modelFromRecord(format, i, &rec.Models[i])
		if err != nil {
			return nil, err
		}
		doc.Models = append(doc.Models, m)
	}
	return doc, nil
}

func materialsFromRecords(format, prefix string, recs []materialRecord) ([]domain.Material, error) {
	var out []domain.Material
	for i := range recs {
		r := &recs[i]
		path := schema.Index(prefix, i)
		kind, err := symbolToEnum(format, path+".kind", schema.MaterialKinds, r.Kind)
		if err != nil {
			return nil, err
		}
		m := domain.Material{
			ID:          r.ID,
			Name:        r.Name,
			Kind:        kind,
			Description: str(r.Description),
			Geology:     str(r.Geology),
		}
		for k := range r.Properties {
			p := &r.Properties[k]
			ppath := schema.Index(path+".properties", k)
			source, err := symbolToEnum(format, ppath+".source", schema.PropertySources, p.Source)
			if err != nil {
				return nil, err
			}
			value, err := valueFromRecord(format, ppath+".value", p.Value)
			if err != nil {
				return nil, err
			}
			m.Properties = append(m.Properties, domain.Property{
				Code:    domain.ParameterCodeOf(p.Code),
				Value:   value,
				Unit:    str(p.Unit),
				Source:  source,
				Method:  str(p.Method),
				CaseID:  str(p.CaseID),
				Remarks: str(p.Remarks),
			})
		}
		out = append(out, m)
	}
	return out, nil
}

func valueFromRecord(format, path string, v *valueRecord) (domain.PropertyValue, error) {
	if v == nil {
		return nil, nil
	}
	switch {
	case v.Kind == valueNumeric && v.Number != nil:
		return domain.NumericValue{Value: *v.Number}, nil
	case v.Kind == valueText && v.Text != nil:
		return domain.TextValue{Value: *v.Text}, nil
	case v.Kind == valueRange && v.Min != nil && v.Max != nil:
		return domain.RangeValue{Min: *v.Min, Max: *v.Max}, nil
	default:
		return nil, domain.NewDecodeError(format, domain.ErrMalformedInput, -1, path,
			fmt.Errorf("%s value without its payload", v.Kind))
	}
}

func modelFromRecord(format string, i int, r *modelRecord) (domain.GroundModel, error) {
	path := schema.ModelPath(i)
	typ, err := symbolToEnum(format, path+".type", schema.ModelTypes, r.Type)
	if err != nil {
		return domain.GroundModel{}, err
	}
	dim, err := symbolToDimension(format, path+".dimension", r.Dimension)
	if err != nil {
		return domain.GroundModel{}, err
	}
	m := domain.GroundModel{
		ID:          r.ID,
		Name:        r.Name,
		Description: str(r.Description),
		Type:        typ,
		Dimension:   dim,
		CRS:         str(r.CRS),
	}
	if b := r.Boundary; b != nil {
		m.Boundary = &domain.Boundary{
			MinX: b.MinX, MaxX: b.MaxX, MinY: b.MinY, MaxY: b.MaxY,
			Top: copyFloat(b.Top), Bottom: copyFloat(b.Bottom),
		}
	}
	if m.Materials, err = materialsFromRecords(format, path+".materials", r.Materials); err != nil {
		return domain.GroundModel{}, err
	}
	for j := range r.Components {
		c := &r.Components[j]
		cpath := schema.ComponentPath(i, j)
		kind, err := symbolToEnum(format, cpath+".kind", schema.ComponentKinds, c.Kind)
		if err != nil {
			return domain.GroundModel{}, err
		}
		g, err := geometryFromRecord(format, cpath+".geometry", c.Geometry)
		if err != nil {
			return domain.GroundModel{}, err
		}
		comp := domain.ModelComponent{
			ID:         c.ID,
			Name:       c.Name,
			Kind:       kind,
			MaterialID: c.MaterialRef,
			Geometry:   g,
			Top:        copyFloat(c.Top),
			Bottom:     copyFloat(c.Bottom),
		}
		if len(c.Attributes) > 0 {
			comp.Attributes = c.Attributes
		}
		m.Components = append(m.Components, comp)
	}
	return m, nil
}

func geometryFromRecord(format, path string, r *geometryRecord) (domain.Geometry, error) {
	if r == nil {
		return nil, nil
	}
	f := &schema.FlatGeometry{
		Kind:        domain.GeometryKind(r.Kind),
		CRS:         str(r.CRS),
		Coords:      r.Coords,
		RingSizes:   r.RingSizes,
		WKT:         str(r.WKT),
		WKB:         bytesOf(r.WKB),
		Data:        bytesOf(r.Data),
		MeshFormat:  str(r.MeshFormat),
		VertexCount: r.VertexCount,
		FaceCount:   r.FaceCount,
	}
	return f.Geometry(format, path)
}

// symbolToEnum maps an Avro symbol back through the schema table.
// Domain values and Avro symbols coincide for every enum but Dimension.
func symbolToEnum[T ~string](format, path string, e *schema.Enum[T], sym *string) (T, error) {
	var zero T
	if sym == nil {
		return zero, nil
	}
	if _, ok := e.Ordinal(T(*sym)); !ok {
		return zero, domain.NewDecodeError(format, domain.ErrSchemaMismatch, -1, path,
			fmt.Errorf("%q is not a %s symbol", *sym, e.Name()))
	}
	return T(*sym), nil
}

func dimensionToSymbol(d domain.Dimension) *string {
	i, ok := schema.Dimensions.Ordinal(d)
	if !ok {
		return nil
	}
	return &dimensionSymbols[i]
}

func symbolToDimension(format, path string, sym *string) (domain.Dimension, error) {
	if sym == nil {
		return "", nil
	}
	for i, s := range dimensionSymbols {
		if s == *sym {
			d, _ := schema.Dimensions.Symbol(i)
			return d, nil
		}
	}
	return "", domain.NewDecodeError(format, domain.ErrSchemaMismatch, -1, path,
		fmt.Errorf("%q is not a Dimension symbol", *sym))
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optBytes(b []byte) *[]byte {
	if len(b) == 0 {
		return nil
	}
	c := append([]byte(nil), b...)
	return &c
}

func bytesOf(p *[]byte) []byte {
	if p == nil || len(*p) == 0 {
		return nil
	}
	return *p
}

func optTime(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	n := t.UnixNano()
	return &n
}

func fromNanos(n *int64) *time.Time {
	if n == nil {
		return nil
	}
	t := time.Unix(0, *n).UTC()
	return &t
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
