// Package sample builds example ground-model documents. They back
// "agsi create document --sample" and serve as fixtures for codec tests.
package sample

import (
	"time"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/geometry"
)

// Mesh is a single OBJ triangle.
var Mesh = []byte("v 0 0 -2\nv 10 0 -2\nv 0 10 -2\nf 1 2 3\n")

// Document returns a valid document that every serialization format can carry.
func Document() *domain.Document {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	modified := time.Date(2024, 3, 2, 17, 45, 12, 500, time.UTC)

	clay := domain.NewMaterial("MAT001", "London Clay", domain.MaterialKindSoil).
		WithDescription("Stiff to very stiff grey clay").
		WithGeology("London Clay Formation").
		AddNumeric(domain.StandardCode(domain.ParamUnitWeightBulk), 20).
		AddProperty(domain.Property{
			Code:   domain.StandardCode(domain.ParamAngleFriction),
			Value:  domain.NumericValue{Value: 24},
			Source: domain.PropertySourceTested,
			Method: "BS 1377-7",
			CaseID: "characteristic",
		}).
		AddProperty(domain.Property{
			Code:   domain.StandardCode(domain.ParamAngleFriction),
			Value:  domain.NumericValue{Value: 21.5},
			Source: domain.PropertySourceDerived,
			CaseID: "conservative",
		}).
		AddProperty(domain.Property{
			Code:    domain.StandardCode(domain.ParamUndrainedShearStrength),
			Value:   domain.RangeValue{Min: 75, Max: 150},
			Unit:    "kPa",
			Remarks: "Increases with depth",
		}).
		AddProperty(domain.Property{
			Code:  domain.StandardCode(domain.ParamACECDSClass),
			Value: domain.TextValue{Value: "DS-2"},
		})

	chalk := domain.NewMaterial("MAT002", "Chalk", domain.MaterialKindRock).
		AddNumeric(domain.StandardCode(domain.ParamUniaxialCompressiveStrength), 5.5).
		AddProperty(domain.Property{
			Code:   domain.CustomCode("CIRIAGrade"),
			Value:  domain.TextValue{Value: "B2"},
			Source: domain.PropertySourceAssumed,
		})

	fill := domain.NewMaterial("MAT-F", "Made ground", domain.MaterialKindMadeGround).
		AddNumeric(domain.StandardCode(domain.ParamUnitWeightBulk), 18)

	marker := domain.NewPoint(512000.5, 181000.25, 12.75)
	marker.CRS = "EPSG:27700"
	marker.WKT, _ = geometry.EncodeText(domain.NewPoint(512000.5, 181000.25, 12.75))
	marker.WKB, _ = geometry.EncodeBinary(domain.NewPoint(512000.5, 181000.25, 12.75))

	outline := domain.NewPolygon(
		[]domain.Coord{{X: 0, Y: 0, Z: -2}, {X: 100, Y: 0, Z: -2}, {X: 100, Y: 80, Z: -2}, {X: 0, Y: 80, Z: -2}, {X: 0, Y: 0, Z: -2}},
		[]domain.Coord{{X: 20, Y: 20, Z: -2}, {X: 30, Y: 20, Z: -2}, {X: 30, Y: 30, Z: -2}, {X: 20, Y: 20, Z: -2}},
	)

	section := domain.NewLineString(
		domain.Coord{X: 0, Y: 40, Z: 10},
		domain.Coord{X: 50, Y: 40, Z: 8.5},
		domain.Coord{X: 100, Y: 40, Z: 7},
	)

	top := 15.0
	bottom := -60.0
	site := domain.NewGroundModel("GM001", "Site stratigraphy", domain.ModelTypeStratigraphic, domain.Dimension3D).
		WithCRS("EPSG:27700").
		WithDescription("Interpreted from 2023 investigation").
		WithBoundary(domain.Boundary{MinX: 0, MaxX: 100, MinY: 0, MaxY: 80, Top: &top, Bottom: &bottom}).
		AddMaterial(fill).
		AddComponent(domain.NewComponent("C001", "Made ground", domain.ComponentKindLayer, "MAT-F", marker).
			WithElevations(12.75, 10)).
		AddComponent(domain.NewComponent("C002", "London Clay", domain.ComponentKindLayer, "MAT001", outline).
			WithElevations(10, -2)).
		AddComponent(domain.NewComponent("C003", "Chalk surface", domain.ComponentKindBoundary, "MAT002",
			domain.NewSurface(append([]byte(nil), Mesh...), 3, 1)).
			WithElevations(-2, -60))

	section2D := domain.NewGroundModel("GM002", "Section A-A", domain.ModelTypeGeotechnical, domain.Dimension2D).
		AddComponent(domain.NewComponent("C001", "Clay section", domain.ComponentKindLayer, "MAT001", section))

	project := domain.NewProject("P-2024-001", "Riverside Bridge")
	project.Client = "City Council"
	project.Contractor = "Ground Works Ltd"
	project.Description = "Foundation design for a two-span bridge"
	project.Location = &domain.Location{
		Name:        "Riverside",
		Country:     "United Kingdom",
		CRS:         "EPSG:27700",
		Coordinates: &domain.LonLat{Lon: -0.1276, Lat: 51.5072},
	}

	return domain.NewDocument("DOC-0001").
		WithName("riverside.agsi.json").
		WithAuthor("A. Engineer").
		WithSoftware(domain.DefaultSoftware).
		WithFileVersion("P02").
		WithComments("Issued for review").
		WithTimestamps(created, modified).
		WithProject(project).
		AddMaterial(clay).
		AddMaterial(chalk).
		AddModel(site).
		AddModel(section2D)
}

// Full returns Document plus the fields that only the text formats carry:
// component attributes and surface bounds.
func Full() *domain.Document {
	doc := Document()
	site := &doc.Models[0]
	site.Components[1].SetAttribute("colour", "grey").SetAttribute("consistency", "stiff")
	if s, ok := site.Components[2].Geometry.(*domain.Surface); ok {
		s.Bounds = &domain.BoundingBox{MinX: 0, MinY: 0, MinZ: -2, MaxX: 10, MaxY: 10, MaxZ: -2}
	}
	return doc
}
