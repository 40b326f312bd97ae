package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
)

var (
	inspectFormat string
	inspectJSON   bool

	infoMaterials bool
	infoModels    bool

	extractModel     string
	extractKind      string
	extractParameter string
	extractName      string
	extractOutput    string
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Show document metadata",
	Long: `Shows file metadata, the project and a summary of each ground model.
Use --materials to list every material with its properties.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Count entities by kind",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract materials",
	Long: `Lists the materials in scope of the document or of one model.
Filters combine: --kind SOIL --parameter UndrainedShearStrength lists soils
that carry an undrained shear strength.

With --output the materials are written as a document of their own.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var diffCmd = &cobra.Command{
	Use:   "diff [file1] [file2]",
	Short: "Compare two documents",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	for _, c := range []*cobra.Command{infoCmd, statsCmd, extractCmd, diffCmd} {
		c.Flags().StringVarP(&inspectFormat, "format", "f", "", "input format (default: from file extension)")
		c.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")
	}
	infoCmd.Flags().BoolVar(&infoMaterials, "materials", false, "list materials and properties")
	infoCmd.Flags().BoolVar(&infoModels, "models", false, "list models and components")

	extractCmd.Flags().StringVarP(&extractModel, "model", "m", "", "model ID")
	extractCmd.Flags().StringVar(&extractKind, "kind", "", "material kind")
	extractCmd.Flags().StringVar(&extractParameter, "parameter", "", "parameter code")
	extractCmd.Flags().StringVar(&extractName, "name", "", "substring of the material name")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "write the materials to a new document")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(diffCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0], inspectFormat)
	if err != nil {
		return err
	}
	info := documentService.Info(doc)
	if inspectJSON {
		return writeJSON(cmd, info)
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.title.Render("Document"))
	field(cmd, "ID", info.ID)
	field(cmd, "Name", info.Name)
	field(cmd, "Author", info.Author)
	field(cmd, "Software", info.Software)
	field(cmd, "File version", info.FileVersion)
	field(cmd, "Schema", info.SchemaVersion)
	if info.CreatedAt != nil {
		field(cmd, "Created", info.CreatedAt.Format("2006-01-02 15:04:05Z07:00"))
	}
	if info.ModifiedAt != nil {
		field(cmd, "Modified", info.ModifiedAt.Format("2006-01-02 15:04:05Z07:00"))
	}

	if p := doc.Project; p != nil {
		cmd.Println()
		cmd.Println(st.title.Render("Project"))
		field(cmd, "ID", p.ID)
		field(cmd, "Name", p.Name)
		field(cmd, "Client", p.Client)
		field(cmd, "Contractor", p.Contractor)
		if p.Location != nil {
			field(cmd, "Location", p.Location.Name)
		}
	}

	cmd.Println()
	cmd.Println(st.title.Render(fmt.Sprintf("Models (%d)", len(doc.Models))))
	for i := range doc.Models {
		m := &doc.Models[i]
		cmd.Printf("  %s %s  %s %s, %s, %s\n", m.ID, m.Name, m.Type, m.Dimension,
			plural(len(m.Components), "component"), plural(len(m.Materials), "local material"))
		if m.CRS != "" {
			cmd.Printf("      CRS %s\n", m.CRS)
		}
		if infoModels {
			for _, c := range m.Components {
				geom := "no geometry"
				if c.Geometry != nil {
					geom = string(c.Geometry.Kind())
				}
				cmd.Printf("      %s %s  %s -> %s (%s)\n", c.ID, c.Name, c.Kind, c.MaterialID, geom)
			}
		}
	}

	if infoMaterials {
		materials, err := documentService.ExtractMaterials(doc, "")
		if err != nil {
			return err
		}
		cmd.Println()
		cmd.Println(st.title.Render(fmt.Sprintf("Materials (%d)", len(materials))))
		printMaterials(cmd, st, materials)
	}
	return nil
}

func field(cmd *cobra.Command, label, value string) {
	if value == "" {
		return
	}
	cmd.Printf("  %-13s %s\n", label+":", value)
}

func printMaterials(cmd *cobra.Command, st styles, materials []*domain.Material) {
	for _, m := range materials {
		cmd.Printf("  %s %s  %s\n", m.ID, m.Name, m.Kind)
		for _, p := range m.Properties {
			value := ""
			if p.Value != nil {
				value = p.Value.String()
			}
			if unit := p.EffectiveUnit(); unit != "" {
				value += " " + unit
			}
			line := fmt.Sprintf("%s = %s", p.Code, value)
			if p.CaseID != "" {
				line += st.dim.Render(" [" + p.CaseID + "]")
			}
			cmd.Printf("      %s\n", line)
		}
	}
}

type statsJSON struct {
	Models                int            `json:"models"`
	Materials             int            `json:"materials"`
	Components            int            `json:"components"`
	Properties            int            `json:"properties"`
	MaterialsByKind       map[string]int `json:"materials_by_kind"`
	ComponentsByKind      map[string]int `json:"components_by_kind"`
	GeometryByKind        map[string]int `json:"geometry_by_kind"`
	PropertiesPerMaterial map[string]int `json:"properties_per_material"`
}

func runStats(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0], inspectFormat)
	if err != nil {
		return err
	}
	s := documentService.Stats(doc)

	if inspectJSON {
		return writeJSON(cmd, statsJSON{
			Models:                s.Models,
			Materials:             s.Materials,
			Components:            s.Components,
			Properties:            s.Properties,
			MaterialsByKind:       stringKeys(s.MaterialsByKind),
			ComponentsByKind:      stringKeys(s.ComponentsByKind),
			GeometryByKind:        stringKeys(s.GeometryByKind),
			PropertiesPerMaterial: s.PropertiesPerMaterial,
		})
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.title.Render("Statistics"))
	cmd.Printf("  Models:     %d\n", s.Models)
	cmd.Printf("  Materials:  %d\n", s.Materials)
	cmd.Printf("  Components: %d\n", s.Components)
	cmd.Printf("  Properties: %d\n", s.Properties)
	printCounts(cmd, st, "Materials by kind", stringKeys(s.MaterialsByKind))
	printCounts(cmd, st, "Components by kind", stringKeys(s.ComponentsByKind))
	printCounts(cmd, st, "Geometry by kind", stringKeys(s.GeometryByKind))
	printCounts(cmd, st, "Properties per material", s.PropertiesPerMaterial)
	return nil
}

func stringKeys[K ~string](m map[K]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func printCounts(cmd *cobra.Command, st styles, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd.Println()
	cmd.Println(st.title.Render(title))
	for _, k := range keys {
		cmd.Printf("  %-16s %d\n", k, counts[k])
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0], inspectFormat)
	if err != nil {
		return err
	}

	materials, err := documentService.QueryMaterials(doc, driving.MaterialQuery{
		ModelID:      extractModel,
		Kind:         domain.MaterialKind(strings.ToUpper(extractKind)),
		Parameter:    extractParameter,
		NameContains: extractName,
	})
	if err != nil {
		return err
	}

	if extractOutput != "" {
		out := documentService.Create(driving.CreateOptions{Name: doc.Name, Author: doc.Author})
		for _, m := range materials {
			out.AddMaterial(m)
		}
		if err := saveDocument(cmd, out, extractOutput, ""); err != nil {
			return err
		}
		cmd.Printf("Extracted %s to %s\n", plural(len(materials), "material"), extractOutput)
		return nil
	}

	if inspectJSON {
		type propertyJSON struct {
			Code  string `json:"code"`
			Value string `json:"value"`
			Unit  string `json:"unit,omitempty"`
			Case  string `json:"case,omitempty"`
		}
		type materialJSON struct {
			ID         string         `json:"id"`
			Name       string         `json:"name"`
			Kind       string         `json:"kind"`
			Properties []propertyJSON `json:"properties"`
		}
		out := make([]materialJSON, len(materials))
		for i, m := range materials {
			props := make([]propertyJSON, len(m.Properties))
			for j, p := range m.Properties {
				props[j] = propertyJSON{Code: p.Code.String(), Unit: p.EffectiveUnit(), Case: p.CaseID}
				if p.Value != nil {
					props[j].Value = p.Value.String()
				}
			}
			out[i] = materialJSON{ID: m.ID, Name: m.Name, Kind: m.Kind.String(), Properties: props}
		}
		return writeJSON(cmd, out)
	}

	if len(materials) == 0 {
		cmd.Println("No materials found.")
		return nil
	}
	printMaterials(cmd, newStyles(cmd.OutOrStdout()), materials)
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := loadDocument(cmd, args[0], inspectFormat)
	if err != nil {
		return err
	}
	b, err := loadDocument(cmd, args[1], inspectFormat)
	if err != nil {
		return err
	}

	report, err := documentService.Diff(a, b)
	if err != nil {
		return err
	}
	if inspectJSON {
		return writeJSON(cmd, report)
	}

	if report.Identical || len(report.Changes) == 0 {
		cmd.Println("Documents are identical.")
		return nil
	}

	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.title.Render(plural(len(report.Changes), "difference")))
	for _, c := range report.Changes {
		switch c.Type {
		case driving.ChangeAdded:
			cmd.Printf("  %s %s\n", st.ok.Render("+"), c.Path)
		case driving.ChangeRemoved:
			cmd.Printf("  %s %s\n", st.err.Render("-"), c.Path)
		default:
			cmd.Printf("  %s %s.%s: %q -> %q\n", st.warn.Render("~"), c.Path, c.Field, c.Old, c.New)
		}
	}
	return nil
}
