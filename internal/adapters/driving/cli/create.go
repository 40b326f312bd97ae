package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/sample"
)

var (
	createOutput string
	createFormat string
	createID     string
	createName   string
	createForce  bool

	createAuthor  string
	createProject string
	createClient  string
	createSample  bool

	createKind        string
	createDescription string
	createModel       string

	createModelType string
	createDimension string
	createCRS       string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create documents, materials and models",
	Long: `Create a new document, or add a material or ground model to one.

material and model add to the --output file when it exists and start a
new document otherwise.`,
}

var createDocumentCmd = &cobra.Command{
	Use:   "document",
	Short: "Create a new document",
	Args:  cobra.NoArgs,
	RunE:  runCreateDocument,
}

var createMaterialCmd = &cobra.Command{
	Use:   "material",
	Short: "Add a material",
	Args:  cobra.NoArgs,
	RunE:  runCreateMaterial,
}

var createModelCmd = &cobra.Command{
	Use:   "model",
	Short: "Add a ground model",
	Args:  cobra.NoArgs,
	RunE:  runCreateModel,
}

func init() {
	for _, c := range []*cobra.Command{createDocumentCmd, createMaterialCmd, createModelCmd} {
		c.Flags().StringVarP(&createOutput, "output", "o", "", "output file (required)")
		c.Flags().StringVarP(&createFormat, "format", "f", "", "output format (default: from file extension)")
		c.Flags().StringVar(&createName, "name", "", "display name")
		_ = c.MarkFlagRequired("output")
	}
	createDocumentCmd.Flags().StringVar(&createID, "id", "", "document ID (default: generated)")
	createDocumentCmd.Flags().StringVar(&createAuthor, "author", "", "author (default: document.author setting)")
	createDocumentCmd.Flags().StringVar(&createProject, "project", "", "project name")
	createDocumentCmd.Flags().StringVar(&createClient, "client", "", "project client")
	createDocumentCmd.Flags().BoolVar(&createSample, "sample", false, "write a complete example document")
	createDocumentCmd.Flags().BoolVar(&createForce, "force", false, "overwrite an existing file")

	createMaterialCmd.Flags().StringVar(&createID, "id", "", "material ID (required)")
	createMaterialCmd.Flags().StringVar(&createKind, "kind", string(domain.MaterialKindSoil), "material kind")
	createMaterialCmd.Flags().StringVar(&createDescription, "description", "", "description")
	createMaterialCmd.Flags().StringVar(&createModel, "model", "", "add to this model instead of the document")
	_ = createMaterialCmd.MarkFlagRequired("id")

	createModelCmd.Flags().StringVar(&createID, "id", "", "model ID (required)")
	createModelCmd.Flags().StringVar(&createModelType, "type", string(domain.ModelTypeStratigraphic), "model type")
	createModelCmd.Flags().StringVar(&createDimension, "dimension", string(domain.Dimension2D), "1D, 2D or 3D")
	createModelCmd.Flags().StringVar(&createCRS, "crs", "", "coordinate reference system, e.g. EPSG:27700")
	createModelCmd.Flags().StringVar(&createDescription, "description", "", "description")
	_ = createModelCmd.MarkFlagRequired("id")

	createCmd.AddCommand(createDocumentCmd)
	createCmd.AddCommand(createMaterialCmd)
	createCmd.AddCommand(createModelCmd)
	rootCmd.AddCommand(createCmd)
}

func runCreateDocument(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}
	if !createForce {
		if _, err := os.Stat(createOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", createOutput)
		}
	}

	var doc *domain.Document
	if createSample {
		doc = sample.Document()
	} else {
		opts := driving.CreateOptions{
			ID:     createID,
			Name:   createName,
			Author: createAuthor,
		}
		if opts.Name == "" {
			opts.Name = filepath.Base(createOutput)
		}
		if settingsService != nil {
			if s, err := settingsService.Get(); err == nil {
				if opts.Author == "" {
					opts.Author = s.Document.Author
				}
				opts.Software = s.Document.Software
			}
		}
		if createProject != "" {
			project := domain.NewProject("P-"+projectSlug(createProject), createProject)
			project.Client = createClient
			opts.Project = project
		}
		doc = documentService.Create(opts)
	}

	if err := saveDocument(cmd, doc, createOutput, createFormat); err != nil {
		return err
	}
	cmd.Printf("Created document %s in %s\n", doc.ID, createOutput)
	return nil
}

func runCreateMaterial(cmd *cobra.Command, _ []string) error {
	kind := domain.MaterialKind(strings.ToUpper(createKind))
	if !kind.IsValid() {
		return fmt.Errorf("unknown material kind %q (valid: %s)", createKind, joinKinds())
	}

	doc, err := openOrCreate(cmd)
	if err != nil {
		return err
	}

	name := createName
	if name == "" {
		name = createID
	}
	material := domain.NewMaterial(createID, name, kind).WithDescription(createDescription)

	target := "document"
	if createModel != "" {
		model, ok := doc.Model(createModel)
		if !ok {
			return fmt.Errorf("model %s: %w", createModel, domain.ErrNotFound)
		}
		if _, exists := model.Material(createID); exists {
			return fmt.Errorf("material %s: %w", createID, domain.ErrAlreadyExists)
		}
		model.AddMaterial(material)
		target = "model " + createModel
	} else {
		if _, exists := doc.Material(createID); exists {
			return fmt.Errorf("material %s: %w", createID, domain.ErrAlreadyExists)
		}
		doc.AddMaterial(material)
	}
	doc.Touch(time.Now())

	if err := saveDocument(cmd, doc, createOutput, createFormat); err != nil {
		return err
	}
	cmd.Printf("Added material %s to %s in %s\n", createID, target, createOutput)
	return nil
}

func runCreateModel(cmd *cobra.Command, _ []string) error {
	typ := domain.ModelType(strings.ToUpper(createModelType))
	if !typ.IsValid() {
		return fmt.Errorf("unknown model type %q", createModelType)
	}
	dim := domain.Dimension(strings.ToUpper(createDimension))
	if !dim.IsValid() {
		return fmt.Errorf("unknown dimension %q (valid: 1D, 2D, 3D)", createDimension)
	}

	doc, err := openOrCreate(cmd)
	if err != nil {
		return err
	}
	if _, exists := doc.Model(createID); exists {
		return fmt.Errorf("model %s: %w", createID, domain.ErrAlreadyExists)
	}

	name := createName
	if name == "" {
		name = createID
	}
	doc.AddModel(domain.NewGroundModel(createID, name, typ, dim).
		WithCRS(createCRS).
		WithDescription(createDescription))
	doc.Touch(time.Now())

	if err := saveDocument(cmd, doc, createOutput, createFormat); err != nil {
		return err
	}
	cmd.Printf("Added model %s in %s\n", createID, createOutput)
	return nil
}

// openOrCreate loads the --output file, or creates an empty document when
// it does not exist yet.
func openOrCreate(cmd *cobra.Command) (*domain.Document, error) {
	if documentService == nil {
		return nil, errDocumentServiceMissing
	}
	doc, err := loadDocument(cmd, createOutput, createFormat)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	opts := driving.CreateOptions{Name: filepath.Base(createOutput)}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			opts.Author = s.Document.Author
			opts.Software = s.Document.Software
		}
	}
	return documentService.Create(opts), nil
}

func projectSlug(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), "-"))
}

func joinKinds() string {
	kinds := domain.AllMaterialKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
