package domain

import "strconv"

// MaterialKind classifies a material.
type MaterialKind string

// Available material kinds.
const (
	MaterialKindSoil          MaterialKind = "SOIL"
	MaterialKindRock          MaterialKind = "ROCK"
	MaterialKindFill          MaterialKind = "FILL"
	MaterialKindMadeGround    MaterialKind = "MADE_GROUND"
	MaterialKindAnthropogenic MaterialKind = "ANTHROPOGENIC"
	MaterialKindWater         MaterialKind = "WATER"
	MaterialKindVoid          MaterialKind = "VOID"
	MaterialKindUnknown       MaterialKind = "UNKNOWN"
)

// AllMaterialKinds returns every material kind in schema order.
func AllMaterialKinds() []MaterialKind {
	return []MaterialKind{
		MaterialKindSoil,
		MaterialKindRock,
		MaterialKindFill,
		MaterialKindMadeGround,
		MaterialKindAnthropogenic,
		MaterialKindWater,
		MaterialKindVoid,
		MaterialKindUnknown,
	}
}

// IsValid returns true if the material kind is recognised.
func (k MaterialKind) IsValid() bool {
	switch k {
	case MaterialKindSoil, MaterialKindRock, MaterialKindFill, MaterialKindMadeGround,
		MaterialKindAnthropogenic, MaterialKindWater, MaterialKindVoid, MaterialKindUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k MaterialKind) String() string {
	return string(k)
}

// Description returns a human-readable name of the kind.
func (k MaterialKind) Description() string {
	switch k {
	case MaterialKindSoil:
		return "Soil"
	case MaterialKindRock:
		return "Rock"
	case MaterialKindFill:
		return "Fill"
	case MaterialKindMadeGround:
		return "Made ground"
	case MaterialKindAnthropogenic:
		return "Anthropogenic"
	case MaterialKindWater:
		return "Water"
	case MaterialKindVoid:
		return "Void"
	case MaterialKindUnknown:
		return "Unknown material"
	default:
		return unknownDescription
	}
}

// PropertySource records where a property value came from.
type PropertySource string

// Available property sources. The empty source means "not stated".
const (
	PropertySourceTested     PropertySource = "TESTED"
	PropertySourceEstimated  PropertySource = "ESTIMATED"
	PropertySourceLiterature PropertySource = "LITERATURE"
	PropertySourceAssumed    PropertySource = "ASSUMED"
	PropertySourceCalculated PropertySource = "CALCULATED"
	PropertySourceDerived    PropertySource = "DERIVED"
)

// AllPropertySources returns every property source in schema order.
func AllPropertySources() []PropertySource {
	return []PropertySource{
		PropertySourceTested,
		PropertySourceEstimated,
		PropertySourceLiterature,
		PropertySourceAssumed,
		PropertySourceCalculated,
		PropertySourceDerived,
	}
}

// IsValid returns true if the source is recognised.
func (s PropertySource) IsValid() bool {
	switch s {
	case PropertySourceTested, PropertySourceEstimated, PropertySourceLiterature,
		PropertySourceAssumed, PropertySourceCalculated, PropertySourceDerived:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s PropertySource) String() string {
	return string(s)
}

// PropertyValue is the closed set of value shapes a property can hold:
// NumericValue, TextValue or RangeValue.
type PropertyValue interface {
	// String renders the value for display.
	String() string

	isPropertyValue()
}

// NumericValue is a single number.
type NumericValue struct {
	Value float64
}

// TextValue is free text, used for classes and conditions.
type TextValue struct {
	Value string
}

// RangeValue is an inclusive min/max pair.
type RangeValue struct {
	Min float64
	Max float64
}

func (NumericValue) isPropertyValue() {}
func (TextValue) isPropertyValue()    {}
func (RangeValue) isPropertyValue()   {}

// String implements PropertyValue.
func (v NumericValue) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

// String implements PropertyValue.
func (v TextValue) String() string {
	return v.Value
}

// String implements PropertyValue.
func (v RangeValue) String() string {
	return strconv.FormatFloat(v.Min, 'g', -1, 64) + ".." + strconv.FormatFloat(v.Max, 'g', -1, 64)
}

// Property is one parameter value on a material.
type Property struct {
	// Code identifies the parameter.
	Code ParameterCode

	// Value is the property value.
	Value PropertyValue

	// Unit overrides the standard unit, empty means the parameter's own unit.
	Unit string

	// Source is the provenance tag, may be empty.
	Source PropertySource

	// Method is the test method, may be empty.
	Method string

	// CaseID distinguishes values of the same code for different analysis cases.
	// Empty is the default case.
	CaseID string

	// Remarks is free text.
	Remarks string
}

// EffectiveUnit returns the unit override or the standard unit.
func (p Property) EffectiveUnit() string {
	if p.Unit != "" {
		return p.Unit
	}
	if sp, ok := p.Code.Standard(); ok {
		return sp.Info().Unit
	}
	return ""
}

// Material is a soil, rock or fill classification with properties.
// A Material may be used standalone outside any Document.
type Material struct {
	ID          string
	Name        string
	Kind        MaterialKind
	Description string

	// Geology is a free-text geological description.
	Geology string

	// Properties keeps insertion order.
	Properties []Property
}

// NewMaterial creates a material.
func NewMaterial(id, name string, kind MaterialKind) *Material {
	return &Material{ID: id, Name: name, Kind: kind}
}

// WithDescription sets the description.
func (m *Material) WithDescription(desc string) *Material {
	m.Description = desc
	return m
}

// WithGeology sets the geological description.
func (m *Material) WithGeology(geology string) *Material {
	m.Geology = geology
	return m
}

// AddProperty appends a property.
func (m *Material) AddProperty(p Property) *Material {
	m.Properties = append(m.Properties, p)
	return m
}

// AddNumeric appends a numeric property in the default case.
func (m *Material) AddNumeric(code ParameterCode, value float64) *Material {
	return m.AddProperty(Property{Code: code, Value: NumericValue{Value: value}})
}

// Property selects the value of code for caseID. The first property with an
// exact (code, case) match wins. When no exact match exists and caseID is not
// empty, the first default-case property for code is returned.
func (m *Material) Property(code ParameterCode, caseID string) (*Property, bool) {
	fallback := -1
	for i := range m.Properties {
		p := &m.Properties[i]
		if p.Code != code {
			continue
		}
		if p.CaseID == caseID {
			return p, true
		}
		if p.CaseID == "" && fallback < 0 {
			fallback = i
		}
	}
	if fallback >= 0 {
		return &m.Properties[fallback], true
	}
	return nil, false
}

// Cases returns the distinct case identifiers used for code, in first-seen order.
func (m *Material) Cases(code ParameterCode) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range m.Properties {
		if p.Code != code || seen[p.CaseID] {
			continue
		}
		seen[p.CaseID] = true
		out = append(out, p.CaseID)
	}
	return out
}

// HasParameter returns true if any property uses code.
func (m *Material) HasParameter(code ParameterCode) bool {
	for _, p := range m.Properties {
		if p.Code == code {
			return true
		}
	}
	return false
}
