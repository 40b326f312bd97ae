package geometry

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// Tolerance is the relative tolerance used when comparing coordinates.
const Tolerance = 1e-9

// SameShape reports whether a and b have the same kind and coordinates
// within Tolerance. CRS and embedded encodings are ignored.
func SameShape(a, b domain.Geometry) bool {
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *domain.Point:
		return sameCoord(a.Coord, b.(*domain.Point).Coord)
	case *domain.LineString:
		return sameCoords(a.Coords, b.(*domain.LineString).Coords)
	case *domain.Polygon:
		bp := b.(*domain.Polygon)
		if !sameCoords(a.Exterior, bp.Exterior) || len(a.Interiors) != len(bp.Interiors) {
			return false
		}
		for i := range a.Interiors {
			if !sameCoords(a.Interiors[i], bp.Interiors[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func sameCoords(a, b []domain.Coord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameCoord(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameCoord(a, b domain.Coord) bool {
	return approxEqual(a.X, b.X) && approxEqual(a.Y, b.Y) && approxEqual(a.Z, b.Z)
}

func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= Tolerance*scale
}

// CheckEmbedded decodes the WKT and WKB carried alongside g's coordinates.
// It fails when an embedding is malformed or of another kind. The returned
// flag is false when an embedding decodes to different coordinates.
func CheckEmbedded(g domain.Geometry) (consistent bool, err error) {
	var text string
	var bin []byte
	switch g := g.(type) {
	case *domain.Point:
		text, bin = g.WKT, g.WKB
	case *domain.LineString:
		text, bin = g.WKT, g.WKB
	case *domain.Polygon:
		text, bin = g.WKT, g.WKB
	default:
		return true, nil
	}

	consistent = true
	if text != "" {
		decoded, err := DecodeText(text)
		if err != nil {
			return false, fmt.Errorf("wkt: %w", err)
		}
		if decoded.Kind() != g.Kind() {
			return false, fmt.Errorf("wkt: %w: %s embedded in %s",
				domain.ErrUnsupportedGeometryKind, decoded.Kind(), g.Kind())
		}
		consistent = consistent && SameShape(g, decoded)
	}
	if len(bin) > 0 {
		decoded, err := DecodeBinary(bin)
		if err != nil {
			return false, fmt.Errorf("wkb: %w", err)
		}
		if decoded.Kind() != g.Kind() {
			return false, fmt.Errorf("wkb: %w: %s embedded in %s",
				domain.ErrUnsupportedGeometryKind, decoded.Kind(), g.Kind())
		}
		consistent = consistent && SameShape(g, decoded)
	}
	return consistent, nil
}

// EncodeBase64 frames a binary payload for text formats.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 reverses EncodeBase64.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	return data, nil
}
