package domain

import (
	"math"
	"strings"
	"sync"
)

// StandardParameter is a member of the AGSi controlled parameter vocabulary.
// The zero value is not a valid parameter.
type StandardParameter int

// Standard parameter codes. The order is the stable ordinal of each code.
const (
	ParamDepth StandardParameter = iota + 1
	ParamElevation
	ParamAnalysisDrainageCondition
	ParamUnitWeightBulk
	ParamAngleFriction
	ParamAngleFrictionPeak
	ParamAngleFrictionCritical
	ParamAngleFrictionResidual
	ParamAngleDilation
	ParamCohesion
	ParamUndrainedShearStrength
	ParamUndrainedShearStrengthTriaxial
	ParamUniaxialCompressiveStrength
	ParamYoungsModulusDrained
	ParamYoungsModulusUndrained
	ParamBulkModulus
	ParamShearModulus
	ParamPoissonsRatio
	ParamSubgradeSurfaceModulus
	ParamCoefficientLateralEarthPressureAtRest
	ParamCoefficientLateralEarthPressureActive
	ParamCoefficientLateralEarthPressurePassive
	ParamCoefficientLateralEarthPressureStar
	ParamCBR
	ParamPermeability
	ParamPermeabilityHorizontal
	ParamPermeabilityVertical
	ParamACECClass
	ParamACECDSClass
	ParamACECCDCClass
)

// ParameterInfo is the fixed metadata of a standard parameter.
type ParameterInfo struct {
	// ID is the canonical code string.
	ID string

	// Unit is the fixed unit, empty for dimensionless or text parameters.
	Unit string

	// Category groups related parameters.
	Category string

	// Description is a human-readable explanation.
	Description string

	// Min and Max bound physically plausible numeric values. Both are NaN when
	// no plausibility check applies.
	Min float64
	Max float64
}

// HasPlausibleRange returns true if numeric values of this parameter can be checked.
func (i ParameterInfo) HasPlausibleRange() bool {
	return !math.IsNaN(i.Min) && !math.IsNaN(i.Max)
}

var nan = math.NaN()

var parameterTable = [...]ParameterInfo{
	ParamDepth:                     {"Depth", "m", "General", "Depth below ground level", 0, 10000},
	ParamElevation:                 {"Elevation", "m", "General", "Elevation relative to datum", -12000, 9000},
	ParamAnalysisDrainageCondition: {"AnalysisDrainageCondition", "", "General", "Drainage condition assumed for analysis", nan, nan},
	ParamUnitWeightBulk:            {"UnitWeightBulk", "kN/m3", "Density", "Bulk unit weight", 5, 30},
	ParamAngleFriction:             {"AngleFriction", "deg", "Strength", "Effective angle of shearing resistance", 0, 90},
	ParamAngleFrictionPeak:         {"AngleFrictionPeak", "deg", "Strength", "Peak effective angle of shearing resistance", 0, 90},
	ParamAngleFrictionCritical:     {"AngleFrictionCritical", "deg", "Strength", "Critical state angle of shearing resistance", 0, 90},
	ParamAngleFrictionResidual:     {"AngleFrictionResidual", "deg", "Strength", "Residual angle of shearing resistance", 0, 90},
	ParamAngleDilation:             {"AngleDilation", "deg", "Strength", "Angle of dilation", 0, 90},
	ParamCohesion:                  {"Cohesion", "kPa", "Strength", "Effective cohesion", 0, 10000},
	ParamUndrainedShearStrength:    {"UndrainedShearStrength", "kPa", "Strength", "Undrained shear strength", 0, 10000},
	ParamUndrainedShearStrengthTriaxial: {"UndrainedShearStrengthTriaxial", "kPa", "Strength",
		"Undrained shear strength from triaxial tests", 0, 10000},
	ParamUniaxialCompressiveStrength: {"UniaxialCompressiveStrength", "MPa", "Strength", "Uniaxial compressive strength", 0, 500},
	ParamYoungsModulusDrained:        {"YoungsModulusDrained", "MPa", "Stiffness", "Drained Young's modulus", 0, 200000},
	ParamYoungsModulusUndrained:      {"YoungsModulusUndrained", "MPa", "Stiffness", "Undrained Young's modulus", 0, 200000},
	ParamBulkModulus:                 {"BulkModulus", "MPa", "Stiffness", "Bulk modulus", 0, 200000},
	ParamShearModulus:                {"ShearModulus", "MPa", "Stiffness", "Shear modulus", 0, 100000},
	ParamPoissonsRatio:               {"PoissonsRatio", "", "Stiffness", "Poisson's ratio", 0, 0.5},
	ParamSubgradeSurfaceModulus:      {"SubgradeSurfaceModulus", "MPa", "Stiffness", "Surface modulus of subgrade", 0, 10000},
	ParamCoefficientLateralEarthPressureAtRest: {"CoefficientLateralEarthPressureAtRest", "", "Ret wall",
		"Coefficient of lateral earth pressure at rest", 0, 10},
	ParamCoefficientLateralEarthPressureActive: {"CoefficientLateralEarthPressureActive", "", "Ret wall",
		"Coefficient of active lateral earth pressure", 0, 10},
	ParamCoefficientLateralEarthPressurePassive: {"CoefficientLateralEarthPressurePassive", "", "Ret wall",
		"Coefficient of passive lateral earth pressure", 0, 50},
	ParamCoefficientLateralEarthPressureStar: {"CoefficientLateralEarthPressureStar", "", "Ret wall",
		"Coefficient of lateral earth pressure K*", 0, 10},
	ParamCBR:                    {"CBR", "%", "Pavement", "California bearing ratio", 0, 300},
	ParamPermeability:           {"Permeability", "m/s", "Permeability", "Coefficient of permeability", 0, 1},
	ParamPermeabilityHorizontal: {"PermeabilityHorizontal", "m/s", "Permeability", "Horizontal coefficient of permeability", 0, 1},
	ParamPermeabilityVertical:   {"PermeabilityVertical", "m/s", "Permeability", "Vertical coefficient of permeability", 0, 1},
	ParamACECClass:              {"ACECClass", "", "Chemical", "Aggressive chemical environment for concrete class", nan, nan},
	ParamACECDSClass:            {"ACECDSClass", "", "Chemical", "Design sulfate class", nan, nan},
	ParamACECCDCClass:           {"ACECCDCClass", "", "Chemical", "Design chemical class", nan, nan},
}

// parameterIndex maps lower-cased code strings to standard parameters.
// It is built once on first use and read-only afterwards.
var parameterIndex = sync.OnceValue(func() map[string]StandardParameter {
	idx := make(map[string]StandardParameter, len(parameterTable))
	for _, p := range AllStandardParameters() {
		idx[strings.ToLower(parameterTable[p].ID)] = p
	}
	return idx
})

// AllStandardParameters returns every standard parameter in ordinal order.
func AllStandardParameters() []StandardParameter {
	out := make([]StandardParameter, 0, len(parameterTable)-1)
	for p := ParamDepth; int(p) < len(parameterTable); p++ {
		out = append(out, p)
	}
	return out
}

// LookupStandardParameter finds a standard parameter by code, ignoring case.
func LookupStandardParameter(code string) (StandardParameter, bool) {
	p, ok := parameterIndex()[strings.ToLower(strings.TrimSpace(code))]
	return p, ok
}

// IsValid returns true if the parameter is a member of the vocabulary.
func (p StandardParameter) IsValid() bool {
	return p > 0 && int(p) < len(parameterTable)
}

// Info returns the parameter's fixed metadata.
func (p StandardParameter) Info() ParameterInfo {
	if !p.IsValid() {
		return ParameterInfo{Min: nan, Max: nan}
	}
	return parameterTable[p]
}

// String returns the canonical code string.
func (p StandardParameter) String() string {
	if !p.IsValid() {
		return unknownDescription
	}
	return parameterTable[p].ID
}

// ParameterCode is either a standard parameter or a free-text project code.
// Exactly one of the two is set.
type ParameterCode struct {
	standard StandardParameter
	custom   string
}

// StandardCode wraps a standard parameter.
func StandardCode(p StandardParameter) ParameterCode {
	return ParameterCode{standard: p}
}

// CustomCode wraps a free-text project code. A code that spells a standard
// parameter, ignoring case and surrounding space, is that standard parameter,
// so the same string always yields the same code.
func CustomCode(code string) ParameterCode {
	if p, ok := LookupStandardParameter(code); ok {
		return StandardCode(p)
	}
	return ParameterCode{custom: code}
}

// ParameterCodeOf parses a code string read from a document or a query.
// It is CustomCode under the name decoders use.
func ParameterCodeOf(code string) ParameterCode {
	return CustomCode(code)
}

// Standard returns the standard parameter and true, or zero and false for free-text codes.
func (c ParameterCode) Standard() (StandardParameter, bool) {
	return c.standard, c.standard.IsValid()
}

// IsStandard returns true if the code belongs to the controlled vocabulary.
func (c ParameterCode) IsStandard() bool {
	return c.standard.IsValid()
}

// IsZero returns true if neither a standard nor a free-text code is set.
func (c ParameterCode) IsZero() bool {
	return !c.standard.IsValid() && c.custom == ""
}

// String returns the code string.
func (c ParameterCode) String() string {
	if c.standard.IsValid() {
		return c.standard.String()
	}
	return c.custom
}
