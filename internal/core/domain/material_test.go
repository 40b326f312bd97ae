package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMaterialKind_IsValid tests material kind validation
func TestMaterialKind_IsValid(t *testing.T) {
	for _, k := range AllMaterialKinds() {
		assert.True(t, k.IsValid(), k)
		assert.NotEqual(t, unknownDescription, k.Description())
	}
	assert.Equal(t, "Unknown material", MaterialKindUnknown.Description())
	assert.False(t, MaterialKind("PEAT").IsValid())
	assert.Equal(t, unknownDescription, MaterialKind("PEAT").Description())
}

// TestPropertySource_IsValid tests property source validation
func TestPropertySource_IsValid(t *testing.T) {
	for _, s := range AllPropertySources() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, PropertySource("").IsValid())
	assert.False(t, PropertySource("GUESSED").IsValid())
}

// TestPropertyValue_String tests value rendering
func TestPropertyValue_String(t *testing.T) {
	assert.Equal(t, "30.5", NumericValue{Value: 30.5}.String())
	assert.Equal(t, "DS-1", TextValue{Value: "DS-1"}.String())
	assert.Equal(t, "1..2.5", RangeValue{Min: 1, Max: 2.5}.String())
}

// TestMaterial_PropertySelection tests deterministic case selection
func TestMaterial_PropertySelection(t *testing.T) {
	friction := StandardCode(ParamAngleFriction)
	m := NewMaterial("MAT001", "Clay", MaterialKindSoil).
		AddNumeric(friction, 25).
		AddProperty(Property{Code: friction, Value: NumericValue{Value: 22}, CaseID: "conservative"}).
		AddProperty(Property{Code: friction, Value: NumericValue{Value: 21}, CaseID: "conservative"}).
		AddProperty(Property{Code: friction, Value: NumericValue{Value: 27}, CaseID: "characteristic"})

	tests := []struct {
		name   string
		caseID string
		want   float64
	}{
		{"default case", "", 25},
		{"first exact match wins", "conservative", 22},
		{"other case", "characteristic", 27},
		{"unknown case falls back to default", "upper", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := m.Property(friction, tt.caseID)
			require.True(t, ok)
			assert.Equal(t, NumericValue{Value: tt.want}, p.Value)
		})
	}

	_, ok := m.Property(StandardCode(ParamCohesion), "")
	assert.False(t, ok)

	assert.Equal(t, []string{"", "conservative", "characteristic"}, m.Cases(friction))
	assert.True(t, m.HasParameter(friction))
	assert.False(t, m.HasParameter(CustomCode("friction")))
}

// TestMaterial_PropertyNoDefaultCase tests selection without a default-case value
func TestMaterial_PropertyNoDefaultCase(t *testing.T) {
	code := CustomCode("SiteSpecific")
	m := NewMaterial("MAT001", "Clay", MaterialKindSoil).
		AddProperty(Property{Code: code, Value: TextValue{Value: "x"}, CaseID: "a"})

	_, ok := m.Property(code, "b")
	assert.False(t, ok)
}

// TestProperty_EffectiveUnit tests unit resolution
func TestProperty_EffectiveUnit(t *testing.T) {
	assert.Equal(t, "deg", Property{Code: StandardCode(ParamAngleFriction)}.EffectiveUnit())
	assert.Equal(t, "rad", Property{Code: StandardCode(ParamAngleFriction), Unit: "rad"}.EffectiveUnit())
	assert.Equal(t, "", Property{Code: CustomCode("Foo")}.EffectiveUnit())
}

// TestParameterCodeOf tests normalisation of code strings
func TestParameterCodeOf(t *testing.T) {
	tests := []struct {
		in       string
		standard bool
		want     string
	}{
		{"AngleFriction", true, "AngleFriction"},
		{"anglefriction", true, "AngleFriction"},
		{" CBR ", true, "CBR"},
		{"MySiteParam", false, "MySiteParam"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := ParameterCodeOf(tt.in)
			assert.Equal(t, tt.standard, c.IsStandard())
			assert.Equal(t, tt.want, c.String())
		})
	}

	assert.True(t, ParameterCode{}.IsZero())
	assert.Equal(t, StandardCode(ParamCBR), ParameterCodeOf("cbr"))
}

// TestCustomCode_NormalisesStandardSpellings tests that free text naming a standard code is that code
func TestCustomCode_NormalisesStandardSpellings(t *testing.T) {
	c := CustomCode("anglefriction")
	assert.Equal(t, StandardCode(ParamAngleFriction), c)
	assert.True(t, c.IsStandard())
	assert.Equal(t, ParameterCodeOf("ANGLEFRICTION"), c)

	custom := CustomCode("CIRIAGrade")
	assert.False(t, custom.IsStandard())
	assert.Equal(t, "CIRIAGrade", custom.String())
}

// TestStandardParameters tests the standard parameter table
func TestStandardParameters(t *testing.T) {
	all := AllStandardParameters()
	require.Len(t, all, 30)
	assert.Equal(t, ParamDepth, all[0])
	assert.Equal(t, ParamACECCDCClass, all[len(all)-1])

	seen := make(map[string]bool)
	for _, p := range all {
		info := p.Info()
		assert.NotEmpty(t, info.ID)
		assert.NotEmpty(t, info.Category)
		assert.NotEmpty(t, info.Description)
		assert.False(t, seen[info.ID], "duplicate %s", info.ID)
		seen[info.ID] = true

		got, ok := LookupStandardParameter(info.ID)
		require.True(t, ok)
		assert.Equal(t, p, got)
	}

	friction := ParamAngleFriction.Info()
	assert.Equal(t, "deg", friction.Unit)
	assert.True(t, friction.HasPlausibleRange())
	assert.Equal(t, 0.0, friction.Min)
	assert.Equal(t, 90.0, friction.Max)

	assert.False(t, ParamACECClass.Info().HasPlausibleRange())
	assert.False(t, StandardParameter(0).IsValid())
	assert.True(t, math.IsNaN(StandardParameter(999).Info().Min))
	assert.Equal(t, unknownDescription, StandardParameter(999).String())
}
