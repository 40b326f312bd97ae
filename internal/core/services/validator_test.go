package services

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/geometry"
	"github.com/custodia-labs/agsi-cli/internal/sample"
)

func newTestValidator() *Validator {
	return NewValidator(geometry.New())
}

func clay() *domain.Material {
	return domain.NewMaterial("MAT001", "Clay", domain.MaterialKindSoil)
}

func modelWith(components ...*domain.ModelComponent) *domain.GroundModel {
	m := domain.NewGroundModel("GM1", "Model", domain.ModelTypeStratigraphic, domain.Dimension3D)
	for _, c := range components {
		m.AddComponent(c)
	}
	return m
}

func layer(id, materialRef string) *domain.ModelComponent {
	return domain.NewComponent(id, "Layer "+id, domain.ComponentKindLayer, materialRef, domain.NewPoint(1, 2, 3))
}

func TestValidate_SingleMaterialIsClean(t *testing.T) {
	doc := domain.NewDocument("DOC1").AddMaterial(clay())

	result := newTestValidator().Validate(doc)
	assert.True(t, result.IsValid())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_SampleIsClean(t *testing.T) {
	result := newTestValidator().Validate(sample.Full())
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_DanglingReference(t *testing.T) {
	doc := domain.NewDocument("DOC1").
		AddMaterial(clay()).
		AddModel(modelWith(layer("C1", "MAT001"), layer("C2", "MAT999")))

	result := newTestValidator().Validate(doc)
	refs := result.ErrorsOfKind(domain.IssueReferentialViolation)
	require.Len(t, refs, 1)
	assert.Equal(t, "models[0].components[1].materialRef", refs[0].Path)
	assert.Equal(t, "C2", refs[0].EntityID)
	assert.Contains(t, refs[0].Message, "MAT999")
	assert.True(t, errors.Is(result.Err(), domain.ErrReferentialViolation))
}

func TestValidate_ModelLocalMaterialResolves(t *testing.T) {
	m := modelWith(layer("C1", "MAT-L")).AddMaterial(domain.NewMaterial("MAT-L", "Local", domain.MaterialKindFill))
	doc := domain.NewDocument("DOC1").AddModel(m)

	result := newTestValidator().Validate(doc)
	assert.Empty(t, result.ErrorsOfKind(domain.IssueReferentialViolation))
}

func TestValidate_TopBelowBottom(t *testing.T) {
	doc := domain.NewDocument("DOC1").
		AddMaterial(clay()).
		AddModel(modelWith(layer("C1", "MAT001").WithElevations(-5, -10), layer("C2", "MAT001").WithElevations(-10, -5)))

	result := newTestValidator().Validate(doc)
	structural := result.ErrorsOfKind(domain.IssueStructuralViolation)
	require.Len(t, structural, 1)
	assert.Equal(t, "C2", structural[0].EntityID)
	assert.Equal(t, domain.CodeElevationOrder, structural[0].Code)
	assert.Equal(t, "models[0].components[1]", structural[0].Path)
}

func TestValidate_ImplausibleFrictionAngle(t *testing.T) {
	doc := domain.NewDocument("DOC1").
		AddMaterial(clay().AddNumeric(domain.StandardCode(domain.ParamAngleFriction), 95))

	result := newTestValidator().Validate(doc)
	assert.True(t, result.IsValid())
	require.Len(t, result.Warnings, 1)

	w := result.Warnings[0]
	assert.Equal(t, domain.IssueImplausibleValue, w.Kind)
	assert.Equal(t, "MAT001", w.EntityID)
	assert.Contains(t, w.Message, "AngleFriction")
	assert.Equal(t, "materials[0].properties[0].value", w.Path)
}

func TestValidate_ReportsEveryTier(t *testing.T) {
	doc := domain.NewDocument("DOC1").
		AddMaterial(domain.NewMaterial("MAT001", "", domain.MaterialKindSoil)).
		AddModel(modelWith(layer("C1", "MAT999")))

	result := newTestValidator().Validate(doc)
	assert.Len(t, result.ErrorsOfKind(domain.IssueStructuralViolation), 1)
	assert.Len(t, result.ErrorsOfKind(domain.IssueReferentialViolation), 1)

	err := result.Err()
	assert.True(t, errors.Is(err, domain.ErrStructuralViolation))
	assert.True(t, errors.Is(err, domain.ErrReferentialViolation))
	assert.Contains(t, err.Error(), "[MAT001]")
	assert.Contains(t, err.Error(), "[C1]")
}

func TestValidate_Duplicates(t *testing.T) {
	m1 := modelWith(layer("C1", "MAT001"), layer("C1", "MAT001"))
	m2 := domain.NewGroundModel("GM1", "Again", domain.ModelTypeStructural, domain.Dimension2D)
	doc := domain.NewDocument("DOC1").
		AddMaterial(clay()).
		AddMaterial(clay()).
		AddMaterial(clay()).
		AddModel(m1).
		AddModel(m2)

	result := newTestValidator().Validate(doc)
	dups := result.ErrorsOfKind(domain.IssueReferentialViolation)
	require.Len(t, dups, 4)

	paths := make([]string, len(dups))
	for i, d := range dups {
		paths[i] = d.Path
		assert.Equal(t, domain.CodeDuplicateID, d.Code)
	}
	assert.Equal(t, []string{"materials[1]", "materials[2]", "models[1]", "models[0].components[1]"}, paths)
	assert.Contains(t, dups[1].Message, "materials[0]")
}

func TestValidate_Structural(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *domain.Document)
		wantCode string
		wantPath string
	}{
		{"missing document id", func(d *domain.Document) { d.ID = "" }, domain.CodeRequired, "id"},
		{"long name", func(d *domain.Document) { d.Name = strings.Repeat("n", 300) }, domain.CodeTooLong, "name"},
		{"bad material kind", func(d *domain.Document) { d.Materials[0].Kind = "PEAT" }, domain.CodeInvalidEnum, "materials[0].kind"},
		{"bad source", func(d *domain.Document) {
			d.Materials[0].AddProperty(domain.Property{Code: domain.CustomCode("x"), Value: domain.TextValue{Value: "y"}, Source: "GUESSED"})
		}, domain.CodeInvalidEnum, "materials[0].properties[0].source"},
		{"missing value", func(d *domain.Document) {
			d.Materials[0].AddProperty(domain.Property{Code: domain.CustomCode("x")})
		}, domain.CodeRequired, "materials[0].properties[0].value"},
		{"inverted range", func(d *domain.Document) {
			d.Materials[0].AddProperty(domain.Property{Code: domain.CustomCode("x"), Value: domain.RangeValue{Min: 5, Max: 1}})
		}, domain.CodeInvalidRange, "materials[0].properties[0].value"},
		{"not finite", func(d *domain.Document) {
			d.Materials[0].AddNumeric(domain.CustomCode("x"), math.NaN())
		}, domain.CodeNotFinite, "materials[0].properties[0].value"},
		{"bad dimension", func(d *domain.Document) { d.Models[0].Dimension = "4D" }, domain.CodeInvalidEnum, "models[0].dimension"},
		{"boundary order", func(d *domain.Document) {
			d.Models[0].WithBoundary(domain.Boundary{MinX: 10, MaxX: 0})
		}, domain.CodeBoundaryOrder, "models[0].boundary"},
		{"missing geometry", func(d *domain.Document) { d.Models[0].Components[0].Geometry = nil }, domain.CodeRequired, "models[0].components[0].geometry"},
		{"missing material ref", func(d *domain.Document) { d.Models[0].Components[0].MaterialID = "" }, domain.CodeRequired, "models[0].components[0].materialRef"},
		{"short line", func(d *domain.Document) {
			d.Models[0].Components[0].Geometry = domain.NewLineString(domain.Coord{X: 1})
		}, domain.CodeTooFewPoints, "models[0].components[0].geometry.coordinates"},
		{"short hole", func(d *domain.Document) {
			d.Models[0].Components[0].Geometry = domain.NewPolygon(
				[]domain.Coord{{X: 0}, {X: 1}, {Y: 1}, {X: 0}}, []domain.Coord{{X: 0.1}, {X: 0.2}})
		}, domain.CodeTooFewPoints, "models[0].components[0].geometry.interiors[0]"},
		{"surface size", func(d *domain.Document) {
			d.Models[0].Components[0].Geometry = domain.NewSurface([]byte("v 0 0 0\n"), 1000, 1000)
		}, domain.CodePayloadSize, "models[0].components[0].geometry.data"},
		{"bad embedded wkt", func(d *domain.Document) {
			p := domain.NewPoint(1, 2, 3)
			p.WKT = "POINT Z (1 2"
			d.Models[0].Components[0].Geometry = p
		}, domain.CodeGeometryEncoding, "models[0].components[0].geometry"},
		{"embedded kind mismatch", func(d *domain.Document) {
			p := domain.NewPoint(1, 2, 3)
			p.WKT = "LINESTRING Z (1 2 3, 4 5 6)"
			d.Models[0].Components[0].Geometry = p
		}, domain.CodeGeometryEncoding, "models[0].components[0].geometry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domain.NewDocument("DOC1").AddMaterial(clay()).AddModel(modelWith(layer("C1", "MAT001")))
			tt.mutate(doc)

			result := newTestValidator().Validate(doc)
			structural := result.ErrorsOfKind(domain.IssueStructuralViolation)
			require.NotEmpty(t, structural)
			assert.Equal(t, tt.wantCode, structural[0].Code)
			assert.Equal(t, tt.wantPath, structural[0].Path)
		})
	}
}

func TestValidate_EmbeddedCoordinateMismatchWarns(t *testing.T) {
	p := domain.NewPoint(1, 2, 3)
	p.WKT = "POINT Z (9 9 9)"
	doc := domain.NewDocument("DOC1").AddMaterial(clay()).
		AddModel(modelWith(domain.NewComponent("C1", "Marker", domain.ComponentKindLayer, "MAT001", p)))

	result := newTestValidator().Validate(doc)
	assert.True(t, result.IsValid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, domain.IssueGeometryEncodingMismatch, result.Warnings[0].Kind)
}

func TestValidate_Semantic(t *testing.T) {
	t.Run("extent", func(t *testing.T) {
		top, bottom := 0.0, -20.0
		m := modelWith(layer("C1", "MAT001").WithElevations(5, -25)).
			WithBoundary(domain.Boundary{MaxX: 1, MaxY: 1, Top: &top, Bottom: &bottom})
		result := newTestValidator().Validate(domain.NewDocument("DOC1").AddMaterial(clay()).AddModel(m))

		assert.True(t, result.IsValid())
		require.Len(t, result.Warnings, 2)
		for _, w := range result.Warnings {
			assert.Equal(t, domain.IssueExtentInconsistency, w.Kind)
			assert.Equal(t, "C1", w.EntityID)
		}
	})

	t.Run("unit mismatch", func(t *testing.T) {
		mat := clay().AddProperty(domain.Property{
			Code:  domain.StandardCode(domain.ParamUndrainedShearStrength),
			Value: domain.NumericValue{Value: 2},
			Unit:  "MPa",
		})
		result := newTestValidator().Validate(domain.NewDocument("DOC1").AddMaterial(mat))
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, domain.IssueUnitMismatch, result.Warnings[0].Kind)
	})

	t.Run("implausible range endpoint", func(t *testing.T) {
		mat := clay().AddProperty(domain.Property{
			Code:  domain.StandardCode(domain.ParamAngleFriction),
			Value: domain.RangeValue{Min: 20, Max: 120},
		})
		result := newTestValidator().Validate(domain.NewDocument("DOC1").AddMaterial(mat))
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, domain.IssueImplausibleValue, result.Warnings[0].Kind)
	})

	t.Run("unknown major version", func(t *testing.T) {
		doc := domain.NewDocument("DOC1")
		doc.SchemaVersion = domain.SchemaVersion{Major: 2}
		result := newTestValidator().Validate(doc)
		require.Len(t, result.ErrorsOfKind(domain.IssueUnrecognizedSchemaVersion), 1)
		assert.True(t, errors.Is(result.Err(), domain.ErrUnrecognizedSchemaVersion))
	})

	t.Run("unknown minor version", func(t *testing.T) {
		doc := domain.NewDocument("DOC1")
		doc.SchemaVersion = domain.SchemaVersion{Major: 1, Minor: 7}
		result := newTestValidator().Validate(doc)
		assert.True(t, result.IsValid())
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, domain.IssueSchemaVersionDrift, result.Warnings[0].Kind)
	})
}

func TestValidate_DoesNotMutate(t *testing.T) {
	doc := sample.Full()
	before := sample.Full()
	newTestValidator().Validate(doc)
	assert.Equal(t, before, doc)
}

func TestValidate_Nil(t *testing.T) {
	result := newTestValidator().Validate(nil)
	assert.False(t, result.IsValid())
}

func TestValidateOrErr(t *testing.T) {
	v := newTestValidator()
	warned := domain.NewDocument("DOC1").
		AddMaterial(clay().AddNumeric(domain.StandardCode(domain.ParamAngleFriction), 95))

	_, err := ValidateOrErr(v, warned, false)
	assert.NoError(t, err)

	_, err = ValidateOrErr(v, warned, true)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ValidateOrErr(v, domain.NewDocument(""), false)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, domain.ErrStructuralViolation))
}
