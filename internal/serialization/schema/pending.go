package schema

import (
	"fmt"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// Gap is a field one format cannot carry yet.
type Gap struct {
	// Field is the generic field path.
	Field string

	// Missing lists the formats without a slot for Field.
	Missing []domain.OutputFormat
}

// Pending is the capability-gap table. Encoding a populated pending field to
// a format listed in Missing fails with domain.ErrUnsupportedField.
var Pending = []Gap{
	{Field: "models[].components[].attributes", Missing: []domain.OutputFormat{domain.OutputFormatWire}},
	{Field: "models[].components[].geometry.bounds", Missing: []domain.OutputFormat{domain.OutputFormatCompact}},
}

// Supports reports whether format can carry the generic field.
func Supports(format domain.OutputFormat, field string) bool {
	for _, g := range Pending {
		if g.Field != field {
			continue
		}
		for _, f := range g.Missing {
			if f == format {
				return false
			}
		}
	}
	return true
}

// CheckPending fails with domain.ErrUnsupportedField naming the first
// populated field of doc that format cannot carry.
func CheckPending(doc *domain.Document, format domain.OutputFormat) error {
	attrs := Supports(format, "models[].components[].attributes")
	bounds := Supports(format, "models[].components[].geometry.bounds")
	if attrs && bounds {
		return nil
	}
	for i := range doc.Models {
		for j := range doc.Models[i].Components {
			c := &doc.Models[i].Components[j]
			path := ComponentPath(i, j)
			if !attrs && len(c.Attributes) > 0 {
				return domain.NewEncodeError(string(format), domain.ErrUnsupportedField, path+".attributes",
					fmt.Errorf("%s has no slot for component attributes", format))
			}
			if s, ok := c.Geometry.(*domain.Surface); ok && !bounds && s.Bounds != nil {
				return domain.NewEncodeError(string(format), domain.ErrUnsupportedField, path+".geometry.bounds",
					fmt.Errorf("%s has no slot for surface bounds", format))
			}
		}
	}
	return nil
}

// ModelPath returns "models[i]".
func ModelPath(i int) string {
	return fmt.Sprintf("models[%d]", i)
}

// ComponentPath returns "models[i].components[j]".
func ComponentPath(i, j int) string {
	return fmt.Sprintf("models[%d].components[%d]", i, j)
}

// Index returns "prefix[i]".
func Index(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
