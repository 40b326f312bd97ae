package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driven"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/logger"
)

// Ensure Validator implements the interface.
var _ driving.ValidationService = (*Validator)(nil)

// String length limits.
const (
	maxIDLength   = 128
	maxNameLength = 256
	maxTextLength = 10000
)

// Validator runs the structural, referential and semantic tiers in order.
// Every tier always runs so one call reports every issue.
type Validator struct {
	geometry driven.GeometryCodec
}

// NewValidator creates a validator. The geometry codec checks embedded
// geometry encodings and surface payloads.
func NewValidator(geometry driven.GeometryCodec) *Validator {
	return &Validator{geometry: geometry}
}

// Validate implements driving.ValidationService. It never mutates doc.
func (v *Validator) Validate(doc *domain.Document) *domain.ValidationResult {
	result := &domain.ValidationResult{}
	if doc == nil {
		result.AddError(domain.Issue{
			Tier:    domain.TierStructural,
			Kind:    domain.IssueStructuralViolation,
			Code:    domain.CodeRequired,
			Message: "document is missing",
		})
		return result
	}

	defer logger.Timed("validate %s", doc.ID)()

	c := &check{doc: doc, result: result, geometry: v.geometry}
	c.structural()
	c.referential()
	c.semantic()
	return result
}

// check holds the state of one validation pass.
type check struct {
	doc      *domain.Document
	result   *domain.ValidationResult
	geometry driven.GeometryCodec
}

func (c *check) structuralError(code, path, entity, format string, args ...any) {
	c.result.AddError(domain.Issue{
		Tier:     domain.TierStructural,
		Kind:     domain.IssueStructuralViolation,
		Code:     code,
		Path:     path,
		EntityID: entity,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *check) referentialError(code, path, entity, format string, args ...any) {
	c.result.AddError(domain.Issue{
		Tier:     domain.TierReferential,
		Kind:     domain.IssueReferentialViolation,
		Code:     code,
		Path:     path,
		EntityID: entity,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *check) warn(tier domain.IssueTier, kind domain.IssueKind, code, path, entity, format string, args ...any) {
	c.result.AddWarning(domain.Issue{
		Tier:     tier,
		Kind:     kind,
		Code:     code,
		Path:     path,
		EntityID: entity,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *check) required(value, path, entity, what string) {
	if strings.TrimSpace(value) == "" {
		c.structuralError(domain.CodeRequired, path, entity, "%s is required", what)
	}
}

func (c *check) length(value string, limit int, path, entity string) {
	if n := len([]rune(value)); n > limit {
		c.structuralError(domain.CodeTooLong, path, entity, "length %d exceeds %d", n, limit)
	}
}

func (c *check) finite(v float64, path, entity string) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.structuralError(domain.CodeNotFinite, path, entity, "value %v is not finite", v)
		return false
	}
	return true
}

// Structural tier.

func (c *check) structural() {
	d := c.doc
	c.required(d.ID, "id", "", "document identifier")
	c.length(d.ID, maxIDLength, "id", d.ID)
	c.length(d.Name, maxNameLength, "name", d.ID)
	c.length(d.Author, maxNameLength, "author", d.ID)
	c.length(d.Software, maxNameLength, "software", d.ID)
	c.length(d.FileVersion, maxNameLength, "fileVersion", d.ID)
	c.length(d.Comments, maxTextLength, "comments", d.ID)

	if p := d.Project; p != nil {
		c.length(p.ID, maxIDLength, "project.id", p.ID)
		c.length(p.Name, maxNameLength, "project.name", p.ID)
		c.length(p.Client, maxNameLength, "project.client", p.ID)
		c.length(p.Contractor, maxNameLength, "project.contractor", p.ID)
		c.length(p.Description, maxTextLength, "project.description", p.ID)
		if l := p.Location; l != nil && l.Coordinates != nil {
			lon, lat := l.Coordinates.Lon, l.Coordinates.Lat
			path := "project.location.coordinates"
			if c.finite(lon, path+".lon", p.ID) && (lon < -180 || lon > 180) {
				c.structuralError(domain.CodeInvalidRange, path+".lon", p.ID, "longitude %g outside [-180, 180]", lon)
			}
			if c.finite(lat, path+".lat", p.ID) && (lat < -90 || lat > 90) {
				c.structuralError(domain.CodeInvalidRange, path+".lat", p.ID, "latitude %g outside [-90, 90]", lat)
			}
		}
	}

	for i := range d.Materials {
		c.material(fmt.Sprintf("materials[%d]", i), &d.Materials[i])
	}
	for i := range d.Models {
		c.model(i, &d.Models[i])
	}
}

func (c *check) material(path string, m *domain.Material) {
	c.required(m.ID, path+".id", m.ID, "material identifier")
	c.length(m.ID, maxIDLength, path+".id", m.ID)
	c.required(m.Name, path+".name", m.ID, "material name")
	c.length(m.Name, maxNameLength, path+".name", m.ID)
	c.length(m.Description, maxTextLength, path+".description", m.ID)
	c.length(m.Geology, maxTextLength, path+".geology", m.ID)
	if !m.Kind.IsValid() {
		c.structuralError(domain.CodeInvalidEnum, path+".kind", m.ID, "%q is not a material kind", m.Kind)
	}

	for k := range m.Properties {
		p := &m.Properties[k]
		ppath := fmt.Sprintf("%s.properties[%d]", path, k)
		if p.Code.IsZero() {
			c.structuralError(domain.CodeRequired, ppath+".code", m.ID, "parameter code is required")
		}
		c.length(p.Code.String(), maxNameLength, ppath+".code", m.ID)
		c.length(p.Unit, maxNameLength, ppath+".unit", m.ID)
		c.length(p.Method, maxNameLength, ppath+".method", m.ID)
		c.length(p.CaseID, maxIDLength, ppath+".caseId", m.ID)
		c.length(p.Remarks, maxTextLength, ppath+".remarks", m.ID)
		if p.Source != "" && !p.Source.IsValid() {
			c.structuralError(domain.CodeInvalidEnum, ppath+".source", m.ID, "%q is not a property source", p.Source)
		}
		switch v := p.Value.(type) {
		case nil:
			c.structuralError(domain.CodeRequired, ppath+".value", m.ID, "value of %s is required", p.Code)
		case domain.NumericValue:
			c.finite(v.Value, ppath+".value", m.ID)
		case domain.TextValue:
			c.length(v.Value, maxTextLength, ppath+".value", m.ID)
		case domain.RangeValue:
			okMin := c.finite(v.Min, ppath+".value.min", m.ID)
			okMax := c.finite(v.Max, ppath+".value.max", m.ID)
			if okMin && okMax && v.Min > v.Max {
				c.structuralError(domain.CodeInvalidRange, ppath+".value", m.ID,
					"range minimum %g exceeds maximum %g", v.Min, v.Max)
			}
		}
	}
}

func (c *check) model(i int, m *domain.GroundModel) {
	path := fmt.Sprintf("models[%d]", i)
	c.required(m.ID, path+".id", m.ID, "model identifier")
	c.length(m.ID, maxIDLength, path+".id", m.ID)
	c.required(m.Name, path+".name", m.ID, "model name")
	c.length(m.Name, maxNameLength, path+".name", m.ID)
	c.length(m.Description, maxTextLength, path+".description", m.ID)
	c.length(m.CRS, maxNameLength, path+".crs", m.ID)
	if !m.Type.IsValid() {
		c.structuralError(domain.CodeInvalidEnum, path+".type", m.ID, "%q is not a model type", m.Type)
	}
	if !m.Dimension.IsValid() {
		c.structuralError(domain.CodeInvalidEnum, path+".dimension", m.ID, "%q is not a dimension", m.Dimension)
	}

	if b := m.Boundary; b != nil {
		bpath := path + ".boundary"
		ok := c.finite(b.MinX, bpath+".minX", m.ID)
		ok = c.finite(b.MaxX, bpath+".maxX", m.ID) && ok
		ok = c.finite(b.MinY, bpath+".minY", m.ID) && ok
		ok = c.finite(b.MaxY, bpath+".maxY", m.ID) && ok
		if ok && (b.MinX > b.MaxX || b.MinY > b.MaxY) {
			c.structuralError(domain.CodeBoundaryOrder, bpath, m.ID,
				"minimum exceeds maximum (x %g..%g, y %g..%g)", b.MinX, b.MaxX, b.MinY, b.MaxY)
		}
		if c.elevations(b.Top, b.Bottom, bpath, m.ID) {
			c.structuralError(domain.CodeBoundaryOrder, bpath, m.ID,
				"top %g is below bottom %g", *b.Top, *b.Bottom)
		}
	}

	for j := range m.Materials {
		c.material(fmt.Sprintf("%s.materials[%d]", path, j), &m.Materials[j])
	}
	for j := range m.Components {
		c.component(fmt.Sprintf("%s.components[%d]", path, j), &m.Components[j])
	}
}

// elevations checks that set elevations are finite and reports whether
// both are set with top below bottom.
func (c *check) elevations(top, bottom *float64, path, entity string) bool {
	ok := true
	if top != nil {
		ok = c.finite(*top, path+".top", entity)
	}
	if bottom != nil {
		ok = c.finite(*bottom, path+".bottom", entity) && ok
	}
	return ok && top != nil && bottom != nil && *top < *bottom
}

func (c *check) component(path string, comp *domain.ModelComponent) {
	c.required(comp.ID, path+".id", comp.ID, "component identifier")
	c.length(comp.ID, maxIDLength, path+".id", comp.ID)
	c.required(comp.Name, path+".name", comp.ID, "component name")
	c.length(comp.Name, maxNameLength, path+".name", comp.ID)
	c.required(comp.MaterialID, path+".materialRef", comp.ID, "material reference")
	c.length(comp.MaterialID, maxIDLength, path+".materialRef", comp.ID)
	if !comp.Kind.IsValid() {
		c.structuralError(domain.CodeInvalidEnum, path+".kind", comp.ID, "%q is not a component kind", comp.Kind)
	}
	if c.elevations(comp.Top, comp.Bottom, path, comp.ID) {
		c.structuralError(domain.CodeElevationOrder, path, comp.ID,
			"top elevation %g is below bottom elevation %g", *comp.Top, *comp.Bottom)
	}
	for k, val := range comp.Attributes {
		c.length(k, maxNameLength, path+".attributes", comp.ID)
		c.length(val, maxTextLength, path+".attributes."+k, comp.ID)
	}

	if comp.Geometry == nil {
		c.structuralError(domain.CodeRequired, path+".geometry", comp.ID, "geometry is required")
		return
	}
	c.geometryShape(path+".geometry", comp.ID, comp.Geometry)
}

func (c *check) coords(cs []domain.Coord, path, entity string) {
	for i, pt := range cs {
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsNaN(pt.Z) ||
			math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) || math.IsInf(pt.Z, 0) {
			c.structuralError(domain.CodeNotFinite, fmt.Sprintf("%s[%d]", path, i), entity,
				"coordinate (%g, %g, %g) is not finite", pt.X, pt.Y, pt.Z)
			return
		}
	}
}

func (c *check) geometryShape(path, entity string, g domain.Geometry) {
	c.length(g.CRSID(), maxNameLength, path+".crs", entity)

	switch g := g.(type) {
	case *domain.Point:
		c.coords([]domain.Coord{g.Coord}, path+".coordinates", entity)
	case *domain.LineString:
		if len(g.Coords) < 2 {
			c.structuralError(domain.CodeTooFewPoints, path+".coordinates", entity,
				"line string has %d point(s), needs at least 2", len(g.Coords))
		}
		c.coords(g.Coords, path+".coordinates", entity)
	case *domain.Polygon:
		if len(g.Exterior) < 3 {
			c.structuralError(domain.CodeTooFewPoints, path+".exterior", entity,
				"exterior ring has %d point(s), needs at least 3", len(g.Exterior))
		}
		c.coords(g.Exterior, path+".exterior", entity)
		for k, ring := range g.Interiors {
			rpath := fmt.Sprintf("%s.interiors[%d]", path, k)
			if len(ring) < 3 {
				c.structuralError(domain.CodeTooFewPoints, rpath, entity,
					"interior ring has %d point(s), needs at least 3", len(ring))
			}
			c.coords(ring, rpath, entity)
		}
	case *domain.Surface:
		if len(g.Data) == 0 {
			c.structuralError(domain.CodeRequired, path+".data", entity, "surface mesh payload is required")
		} else if c.geometry != nil {
			if err := c.geometry.CheckSurface(g); err != nil {
				c.structuralError(domain.CodePayloadSize, path+".data", entity, "%v", err)
			}
		}
		if b := g.Bounds; b != nil && (b.MinX > b.MaxX || b.MinY > b.MaxY || b.MinZ > b.MaxZ) {
			c.structuralError(domain.CodeBoundaryOrder, path+".bounds", entity, "bounding box minimum exceeds maximum")
		}
		return
	}

	if c.geometry == nil {
		return
	}
	consistent, err := c.geometry.CheckEmbedded(g)
	switch {
	case err != nil:
		c.structuralError(domain.CodeGeometryEncoding, path, entity, "embedded encoding: %v", err)
	case !consistent:
		c.warn(domain.TierStructural, domain.IssueGeometryEncodingMismatch, domain.CodeGeometryEncoding, path, entity,
			"embedded encodings describe different coordinates than the geometry")
	}
}

// Referential tier.

func (c *check) referential() {
	d := c.doc

	c.duplicates("materials", len(d.Materials), func(i int) string { return d.Materials[i].ID }, "material")
	c.duplicates("models", len(d.Models), func(i int) string { return d.Models[i].ID }, "model")

	for i := range d.Models {
		m := &d.Models[i]
		path := fmt.Sprintf("models[%d]", i)
		c.duplicates(path+".materials", len(m.Materials), func(j int) string { return m.Materials[j].ID }, "material")
		c.duplicates(path+".components", len(m.Components), func(j int) string { return m.Components[j].ID }, "component")

		for j := range m.Components {
			comp := &m.Components[j]
			if comp.MaterialID == "" {
				continue
			}
			if _, ok := d.ResolveMaterial(m, comp.MaterialID); !ok {
				c.referentialError(domain.CodeDanglingReference,
					fmt.Sprintf("%s.components[%d].materialRef", path, j), comp.ID,
					"material %q referenced by component %q is not defined in model %q or the document",
					comp.MaterialID, comp.ID, m.ID)
			}
		}
	}
}

// duplicates reports every repeat of an identifier once, naming the first location.
func (c *check) duplicates(prefix string, n int, id func(int) string, what string) {
	first := make(map[string]int, n)
	for i := 0; i < n; i++ {
		v := id(i)
		if v == "" {
			continue
		}
		if orig, seen := first[v]; seen {
			c.referentialError(domain.CodeDuplicateID, fmt.Sprintf("%s[%d]", prefix, i), v,
				"duplicate %s identifier %q, first defined at %s[%d]", what, v, prefix, orig)
			continue
		}
		first[v] = i
	}
}

// Semantic tier.

func (c *check) semantic() {
	d := c.doc
	c.schemaVersion()

	for i := range d.Materials {
		c.plausibility(fmt.Sprintf("materials[%d]", i), &d.Materials[i])
	}
	for i := range d.Models {
		m := &d.Models[i]
		path := fmt.Sprintf("models[%d]", i)
		for j := range m.Materials {
			c.plausibility(fmt.Sprintf("%s.materials[%d]", path, j), &m.Materials[j])
		}
		c.extent(path, m)
	}
}

func (c *check) schemaVersion() {
	v := c.doc.SchemaVersion
	if v.Major != domain.SupportedMajorVersion {
		c.result.AddError(domain.Issue{
			Tier:     domain.TierSemantic,
			Kind:     domain.IssueUnrecognizedSchemaVersion,
			Code:     domain.CodeUnknownMajor,
			Path:     "schemaVersion",
			EntityID: c.doc.ID,
			Message:  fmt.Sprintf("schema version %s has unsupported major version %d", v, v.Major),
		})
		return
	}
	if !v.IsKnown() {
		c.warn(domain.TierSemantic, domain.IssueSchemaVersionDrift, domain.CodeUnknownVersion, "schemaVersion", c.doc.ID,
			"schema version %s is not a known %d.x release", v, v.Major)
	}
}

func (c *check) extent(path string, m *domain.GroundModel) {
	b := m.Boundary
	if b == nil || (b.Top == nil && b.Bottom == nil) {
		return
	}
	for j := range m.Components {
		comp := &m.Components[j]
		cpath := fmt.Sprintf("%s.components[%d]", path, j)
		for _, e := range []struct {
			name  string
			value *float64
		}{{"top", comp.Top}, {"bottom", comp.Bottom}} {
			if e.value == nil || math.IsNaN(*e.value) {
				continue
			}
			if b.Top != nil && *e.value > *b.Top {
				c.warn(domain.TierSemantic, domain.IssueExtentInconsistency, domain.CodeOutsideExtent, cpath+"."+e.name, comp.ID,
					"%s elevation %g is above the model top %g", e.name, *e.value, *b.Top)
			}
			if b.Bottom != nil && *e.value < *b.Bottom {
				c.warn(domain.TierSemantic, domain.IssueExtentInconsistency, domain.CodeOutsideExtent, cpath+"."+e.name, comp.ID,
					"%s elevation %g is below the model bottom %g", e.name, *e.value, *b.Bottom)
			}
		}
	}
}

func (c *check) plausibility(path string, m *domain.Material) {
	for k := range m.Properties {
		p := &m.Properties[k]
		sp, ok := p.Code.Standard()
		if !ok {
			continue
		}
		info := sp.Info()
		ppath := fmt.Sprintf("%s.properties[%d]", path, k)

		if p.Unit != "" && info.Unit != "" && !strings.EqualFold(p.Unit, info.Unit) {
			c.warn(domain.TierSemantic, domain.IssueUnitMismatch, domain.CodeUnitMismatch, ppath+".unit", m.ID,
				"%s of material %q uses unit %q, standard unit is %q", sp, m.ID, p.Unit, info.Unit)
			continue
		}
		if !info.HasPlausibleRange() {
			continue
		}

		var values []float64
		switch v := p.Value.(type) {
		case domain.NumericValue:
			values = []float64{v.Value}
		case domain.RangeValue:
			values = []float64{v.Min, v.Max}
		}
		for _, x := range values {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			if x < info.Min || x > info.Max {
				c.warn(domain.TierSemantic, domain.IssueImplausibleValue, domain.CodeImplausible, ppath+".value", m.ID,
					"%s = %g %s on material %q is outside the plausible range [%g, %g]",
					sp, x, info.Unit, m.ID, info.Min, info.Max)
				break
			}
		}
	}
}

// ErrValidation is wrapped by ValidateOrErr failures in addition to the kind sentinels.
var ErrValidation = errors.New("document failed validation")

// ValidateOrErr validates doc and folds errors into one error. Warnings count
// as failures when strict is set.
func ValidateOrErr(v driving.ValidationService, doc *domain.Document, strict bool) (*domain.ValidationResult, error) {
	result := v.Validate(doc)
	if err := result.Err(); err != nil {
		return result, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if strict && len(result.Warnings) > 0 {
		return result, fmt.Errorf("%w: %d warning(s) in strict mode", ErrValidation, len(result.Warnings))
	}
	return result, nil
}
