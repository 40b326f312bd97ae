package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/sample"
	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

func newDocumentService(t *testing.T) (*DocumentService, *memory.FileStore) {
	t.Helper()
	files := memory.NewFileStore()
	svc := NewDocumentService(serialization.Default(), files)
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, files
}

func TestDocumentService_Create(t *testing.T) {
	svc, _ := newDocumentService(t)

	doc := svc.Create(driving.CreateOptions{Name: "site.json", Author: "A. Engineer"})
	assert.Contains(t, doc.ID, "DOC-")
	assert.Equal(t, "site.json", doc.Name)
	assert.Equal(t, domain.DefaultSoftware, doc.Software)
	assert.Equal(t, domain.CurrentSchemaVersion, doc.SchemaVersion)
	require.NotNil(t, doc.CreatedAt)
	assert.Equal(t, 2025, doc.CreatedAt.Year())
	assert.Equal(t, doc.CreatedAt, doc.ModifiedAt)

	other := svc.Create(driving.CreateOptions{})
	assert.NotEqual(t, doc.ID, other.ID)

	fixed := svc.Create(driving.CreateOptions{ID: "DOC1", Software: "tool", Project: domain.NewProject("P1", "Bridge")})
	assert.Equal(t, "DOC1", fixed.ID)
	assert.Equal(t, "tool", fixed.Software)
	assert.Equal(t, "Bridge", fixed.Project.Name)
}

func TestDocumentService_SaveLoad(t *testing.T) {
	svc, files := newDocumentService(t)
	ctx := context.Background()

	for _, f := range domain.AllOutputFormats() {
		t.Run(string(f), func(t *testing.T) {
			path := "site." + string(f)
			require.NoError(t, svc.Save(ctx, sample.Document(), path, f))
			assert.Contains(t, files.Paths(), path)

			doc, err := svc.Load(ctx, path, f)
			require.NoError(t, err)
			assert.Equal(t, sample.Document(), doc)
		})
	}
}

func TestDocumentService_LoadErrors(t *testing.T) {
	svc, files := newDocumentService(t)
	ctx := context.Background()

	_, err := svc.Load(ctx, "missing.json", domain.OutputFormatText)
	assert.Error(t, err)

	require.NoError(t, files.WriteFile("broken.json", []byte(`{"id":`)))
	_, err = svc.Load(ctx, "broken.json", domain.OutputFormatText)
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))

	_, err = svc.Load(ctx, "broken.json", "xml")
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, svc.Save(cancelled, sample.Document(), "x.json", domain.OutputFormatText), context.Canceled)

	noFiles := NewDocumentService(serialization.Default(), nil)
	_, err = noFiles.Load(ctx, "x.json", domain.OutputFormatText)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDocumentService_Convert(t *testing.T) {
	svc, _ := newDocumentService(t)

	text, err := svc.Encode(sample.Document(), domain.OutputFormatText)
	require.NoError(t, err)

	wire, err := svc.Convert(text, domain.OutputFormatText, domain.OutputFormatWire)
	require.NoError(t, err)

	back, err := svc.Convert(wire, domain.OutputFormatWire, domain.OutputFormatText)
	require.NoError(t, err)
	assert.Equal(t, string(text), string(back))

	_, err = svc.Convert(text, domain.OutputFormatWire, domain.OutputFormatText)
	assert.True(t, errors.Is(err, domain.ErrMalformedInput))

	_, err = svc.Encode(nil, domain.OutputFormatText)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDocumentService_ExtractMaterials(t *testing.T) {
	svc, _ := newDocumentService(t)
	doc := sample.Document()

	all, err := svc.ExtractMaterials(doc, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"MAT001", "MAT002", "MAT-F"}, materialIDs(all))

	site, err := svc.ExtractMaterials(doc, "GM001")
	require.NoError(t, err)
	assert.Equal(t, []string{"MAT-F", "MAT001", "MAT002"}, materialIDs(site))

	_, err = svc.ExtractMaterials(doc, "GM999")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = svc.ExtractMaterials(nil, "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDocumentService_QueryMaterials(t *testing.T) {
	svc, _ := newDocumentService(t)
	doc := sample.Document()

	tests := []struct {
		name  string
		query driving.MaterialQuery
		want  []string
	}{
		{"everything", driving.MaterialQuery{}, []string{"MAT001", "MAT002", "MAT-F"}},
		{"by kind", driving.MaterialQuery{Kind: domain.MaterialKindRock}, []string{"MAT002"}},
		{"by parameter", driving.MaterialQuery{Parameter: "UnitWeightBulk"}, []string{"MAT001", "MAT-F"}},
		{"by custom parameter", driving.MaterialQuery{Parameter: "CIRIAGrade"}, []string{"MAT002"}},
		{"by name", driving.MaterialQuery{NameContains: "CLAY"}, []string{"MAT001"}},
		{"scoped", driving.MaterialQuery{ModelID: "GM002"}, []string{"MAT001"}},
		{"no match", driving.MaterialQuery{Kind: domain.MaterialKindFill}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.QueryMaterials(doc, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, materialIDs(got))
		})
	}
}

func TestDocumentService_InfoStats(t *testing.T) {
	svc, _ := newDocumentService(t)
	doc := sample.Document()

	info := svc.Info(doc)
	assert.Equal(t, "DOC-0001", info.ID)
	assert.Equal(t, "Riverside Bridge", info.ProjectName)
	assert.Equal(t, "City Council", info.Client)
	assert.Equal(t, "1.0.1", info.SchemaVersion)
	assert.Equal(t, []string{"GM001", "GM002"}, info.ModelIDs)

	st := svc.Stats(doc)
	assert.Equal(t, 2, st.Models)
	assert.Equal(t, 3, st.Materials)
	assert.Equal(t, 4, st.Components)
	assert.Equal(t, 8, st.Properties)
	assert.Equal(t, 1, st.MaterialsByKind[domain.MaterialKindSoil])
	assert.Equal(t, 3, st.ComponentsByKind[domain.ComponentKindLayer])
	assert.Equal(t, 1, st.GeometryByKind[domain.GeometryKindSurface])
	assert.Equal(t, 2, st.GeometryByKind[domain.GeometryKindLineString]+st.GeometryByKind[domain.GeometryKindPolygon])
	assert.Equal(t, 5, st.PropertiesPerMaterial["MAT001"])
}

func TestDocumentService_Diff(t *testing.T) {
	svc, _ := newDocumentService(t)

	report, err := svc.Diff(sample.Document(), sample.Document())
	require.NoError(t, err)
	assert.True(t, report.Identical)
	assert.Empty(t, report.Changes)

	changed := sample.Document()
	changed.Author = "B. Reviewer"
	changed.Materials = changed.Materials[:1]
	changed.Models[0].Components[1].MaterialID = "MAT002"
	changed.Models[1].AddComponent(domain.NewComponent("C009", "New", domain.ComponentKindLens, "MAT001",
		domain.NewPoint(1, 2, 3)))

	report, err = svc.Diff(sample.Document(), changed)
	require.NoError(t, err)
	assert.False(t, report.Identical)
	assert.Contains(t, report.Changes, driving.Change{
		Type: driving.ChangeModified, Path: "document", Field: "author", Old: "A. Engineer", New: "B. Reviewer",
	})
	assert.Contains(t, report.Changes, driving.Change{Type: driving.ChangeRemoved, Path: "materials[MAT002]"})
	assert.Contains(t, report.Changes, driving.Change{
		Type: driving.ChangeModified, Path: "models[GM001].components[C002]", Field: "materialRef",
		Old: "MAT001", New: "MAT002",
	})
	assert.Contains(t, report.Changes, driving.Change{Type: driving.ChangeAdded, Path: "models[GM002].components[C009]"})
	assert.Len(t, report.Changes, 4)

	_, err = svc.Diff(nil, changed)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDocumentService_DiffGeometry(t *testing.T) {
	svc, _ := newDocumentService(t)

	moved := sample.Document()
	moved.Models[1].Components[0].Geometry = domain.NewLineString(
		domain.Coord{X: 0, Y: 40, Z: 10},
		domain.Coord{X: 100, Y: 40, Z: 7},
	)

	report, err := svc.Diff(sample.Document(), moved)
	require.NoError(t, err)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, "geometry", report.Changes[0].Field)
	assert.Equal(t, "LINESTRING with 3 coordinate(s)", report.Changes[0].Old)
	assert.Equal(t, "LINESTRING with 2 coordinate(s)", report.Changes[0].New)
}

func materialIDs(ms []*domain.Material) []string {
	var out []string
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}
