// Package domain defines the core ground-model entities for agsi.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: The root aggregate of one interchange file
//   - Project: Embedded project metadata
//   - Material: A soil, rock or fill classification with properties
//   - GroundModel: A typed, dimensioned model built from components
//   - ModelComponent: One geometric unit referencing a material
//   - Geometry: Point, LineString, Polygon or Surface payload
//   - ValidationResult: Errors and warnings reported by the validator
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
