package schema

import (
	"fmt"
	"math"
	"time"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

// Binary formats store timestamps as int64 nanoseconds since the Unix epoch.
var (
	MinTimestamp = time.Unix(0, math.MinInt64).UTC()
	MaxTimestamp = time.Unix(0, math.MaxInt64).UTC()
)

// CheckTimestamps fails with domain.ErrSchemaMismatch when a document
// timestamp falls outside [MinTimestamp, MaxTimestamp].
func CheckTimestamps(doc *domain.Document, format domain.OutputFormat) error {
	for _, ts := range []struct {
		path string
		t    *time.Time
	}{
		{"file.createdAt", doc.CreatedAt},
		{"file.modifiedAt", doc.ModifiedAt},
	} {
		if ts.t == nil {
			continue
		}
		if ts.t.Before(MinTimestamp) || ts.t.After(MaxTimestamp) {
			return domain.NewEncodeError(string(format), domain.ErrSchemaMismatch, ts.path,
				fmt.Errorf("%s outside the nanosecond range %s to %s",
					ts.t.Format(time.RFC3339), MinTimestamp.Format(time.RFC3339), MaxTimestamp.Format(time.RFC3339)))
		}
	}
	return nil
}

// CheckEnums fails with domain.ErrSchemaMismatch naming the first
// enumeration value of doc outside its table. Binary formats call it before
// encoding so they never truncate or default a value.
func CheckEnums(doc *domain.Document, format domain.OutputFormat) error {
	f := string(format)
	for i := range doc.Materials {
		if err := checkMaterial(f, Index("materials", i), &doc.Materials[i]); err != nil {
			return err
		}
	}
	for i := range doc.Models {
		m := &doc.Models[i]
		path := ModelPath(i)
		if err := ModelTypes.Check(f, path+".type", m.Type); err != nil {
			return err
		}
		if err := Dimensions.Check(f, path+".dimension", m.Dimension); err != nil {
			return err
		}
		for j := range m.Materials {
			if err := checkMaterial(f, Index(path+".materials", j), &m.Materials[j]); err != nil {
				return err
			}
		}
		for j := range m.Components {
			if err := ComponentKinds.Check(f, ComponentPath(i, j)+".kind", m.Components[j].Kind); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkMaterial(format, path string, m *domain.Material) error {
	if err := MaterialKinds.Check(format, path+".kind", m.Kind); err != nil {
		return err
	}
	for k := range m.Properties {
		if err := PropertySources.Check(format, Index(path+".properties", k)+".source", m.Properties[k].Source); err != nil {
			return err
		}
	}
	return nil
}
