package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SchemaVersion is a semantic version triple.
type SchemaVersion struct {
	Major int
	Minor int
	Patch int
}

// CurrentSchemaVersion is the version written by this toolkit.
var CurrentSchemaVersion = SchemaVersion{Major: 1, Minor: 0, Patch: 1}

// KnownSchemaVersions lists every version the validator recognises.
var KnownSchemaVersions = []SchemaVersion{
	{Major: 1, Minor: 0, Patch: 0},
	{Major: 1, Minor: 0, Patch: 1},
}

// SupportedMajorVersion is the only major version documents may declare.
const SupportedMajorVersion = 1

// String renders the version as "major.minor.patch".
func (v SchemaVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero returns true if no component is set.
func (v SchemaVersion) IsZero() bool {
	return v == SchemaVersion{}
}

// IsKnown returns true if v is listed in KnownSchemaVersions.
func (v SchemaVersion) IsKnown() bool {
	for _, k := range KnownSchemaVersions {
		if k == v {
			return true
		}
	}
	return false
}

// ParseSchemaVersion parses "major.minor.patch". Missing trailing components are zero.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return SchemaVersion{}, fmt.Errorf("schema version %q: %w", s, ErrInvalidInput)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return SchemaVersion{}, fmt.Errorf("schema version %q: %w", s, ErrInvalidInput)
		}
		nums[i] = n
	}
	return SchemaVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}
