// Package cli implements the agsi command line. Commands are package-level
// cobra commands registered in init; services are injected by main through
// the Set functions before Execute runs.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/logger"
)

// version is set by main from the build.
var version = "dev"

var (
	documentService   driving.DocumentService
	validationService driving.ValidationService
	settingsService   driving.SettingsService

	// catalogService is opened on first use through catalogOpener.
	catalogService driving.CatalogService
	catalogCloser  io.Closer
	catalogOpener  CatalogOpener
)

// CatalogOpener opens the document catalog. The closer may be nil.
type CatalogOpener func() (driving.CatalogService, io.Closer, error)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "agsi",
	Short: "Validate, inspect and convert AGSi ground-model documents",
	Long: `agsi works with AGSi ground-model documents: stratigraphic and
geotechnical models, their components and material properties.

It validates documents in three tiers (structural, referential, semantic),
converts between the canonical text format (JSON or YAML) and the compact
and wire binary formats, and keeps a local catalog of documents.`,
	SilenceUsage:      true,
	PersistentPreRunE: configureLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print debug logs to stderr")
}

// configureLogging enables verbose logging from the flag or the log.verbose setting.
func configureLogging(_ *cobra.Command, _ []string) error {
	verbose := verboseFlag
	if !verbose && settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			verbose = s.Log.Verbose
		}
	}
	logger.SetVerbose(verbose)
	return nil
}

// SetVersion sets the version reported by "agsi version".
func SetVersion(v string) {
	version = v
}

// SetDocumentService injects the document service.
func SetDocumentService(s driving.DocumentService) {
	documentService = s
}

// SetValidationService injects the validator.
func SetValidationService(s driving.ValidationService) {
	validationService = s
}

// SetSettingsService injects the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetCatalogOpener injects the function that opens the catalog on first use.
func SetCatalogOpener(open CatalogOpener) {
	catalogOpener = open
}

// openCatalog returns the catalog, opening it if needed.
func openCatalog() (driving.CatalogService, error) {
	if catalogService != nil {
		return catalogService, nil
	}
	if catalogOpener == nil {
		return nil, errors.New("catalog not configured")
	}
	svc, closer, err := catalogOpener()
	if err != nil {
		return nil, err
	}
	catalogService, catalogCloser = svc, closer
	return svc, nil
}

// Close releases the catalog if it was opened.
func Close() error {
	if catalogCloser == nil {
		return nil
	}
	err := catalogCloser.Close()
	catalogService, catalogCloser = nil, nil
	return err
}

// ExecuteContext runs the root command; ctx is cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
