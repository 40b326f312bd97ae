// Package schema holds the logical schema shared by every serialization
// format: enumeration ordinal tables, the pending capability-gap table and
// field path helpers.
//
// The tables are fixed independently of the domain enumerations. A domain
// value missing here cannot be encoded by the binary formats, and changing
// an ordinal is a breaking change to every persisted binary payload.
package schema

import (
	"fmt"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// Enum is an ordered symbol table. Ordinals are zero based.
type Enum[T ~string] struct {
	name    string
	symbols []T
	index   map[T]int
}

func newEnum[T ~string](name string, symbols ...T) *Enum[T] {
	idx := make(map[T]int, len(symbols))
	for i, s := range symbols {
		idx[s] = i
	}
	return &Enum[T]{name: name, symbols: symbols, index: idx}
}

// Name returns the schema type name.
func (e *Enum[T]) Name() string { return e.name }

// Symbols returns the symbols in ordinal order.
func (e *Enum[T]) Symbols() []T {
	return append([]T(nil), e.symbols...)
}

// Ordinal returns the ordinal of v.
func (e *Enum[T]) Ordinal(v T) (int, bool) {
	i, ok := e.index[v]
	return i, ok
}

// Symbol returns the symbol at ordinal i.
func (e *Enum[T]) Symbol(i int) (T, bool) {
	if i < 0 || i >= len(e.symbols) {
		var zero T
		return zero, false
	}
	return e.symbols[i], true
}

// Check returns a schema mismatch naming path when v is not a symbol.
// The empty value is accepted as "absent".
func (e *Enum[T]) Check(format, path string, v T) error {
	if v == "" {
		return nil
	}
	if _, ok := e.index[v]; !ok {
		return domain.NewEncodeError(format, domain.ErrSchemaMismatch, path,
			fmt.Errorf("%q is not a %s symbol", string(v), e.name))
	}
	return nil
}

// Enumeration tables in ordinal order.
var (
	MaterialKinds = newEnum("MaterialKind",
		domain.MaterialKindSoil,
		domain.MaterialKindRock,
		domain.MaterialKindFill,
		domain.MaterialKindMadeGround,
		domain.MaterialKindAnthropogenic,
		domain.MaterialKindWater,
		domain.MaterialKindVoid,
		domain.MaterialKindUnknown,
	)

	PropertySources = newEnum("PropertySource",
		domain.PropertySourceTested,
		domain.PropertySourceEstimated,
		domain.PropertySourceLiterature,
		domain.PropertySourceAssumed,
		domain.PropertySourceCalculated,
		domain.PropertySourceDerived,
	)

	ModelTypes = newEnum("ModelType",
		domain.ModelTypeStratigraphic,
		domain.ModelTypeStructural,
		domain.ModelTypeHydrogeological,
		domain.ModelTypeGeotechnical,
		domain.ModelTypeEnvironmental,
		domain.ModelTypeComposite,
	)

	Dimensions = newEnum("Dimension",
		domain.Dimension1D,
		domain.Dimension2D,
		domain.Dimension3D,
	)

	ComponentKinds = newEnum("ComponentKind",
		domain.ComponentKindLayer,
		domain.ComponentKindLens,
		domain.ComponentKindVolume,
		domain.ComponentKindFault,
		domain.ComponentKindIntrusion,
		domain.ComponentKindBoundary,
	)

	GeometryKinds = newEnum("GeometryKind",
		domain.GeometryKindPoint,
		domain.GeometryKindLineString,
		domain.GeometryKindPolygon,
		domain.GeometryKindSurface,
	)
)
