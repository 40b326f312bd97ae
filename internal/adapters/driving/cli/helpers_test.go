package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/agsi-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/core/ports/driving"
	"github.com/custodia-labs/agsi-cli/internal/core/services"
	"github.com/custodia-labs/agsi-cli/internal/geometry"
	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

// setupTestServices wires real services over the local filesystem, an
// in-memory config store and an in-memory catalog. The returned func
// restores the previous package state.
func setupTestServices() func() {
	oldDocument := documentService
	oldValidation := validationService
	oldSettings := settingsService
	oldCatalog, oldCloser, oldOpener := catalogService, catalogCloser, catalogOpener

	codecs := serialization.Default()
	validator := services.NewValidator(geometry.New())
	documentService = services.NewDocumentService(codecs, file.NewFileStore())
	validationService = validator
	settingsService = services.NewSettingsService(memory.NewConfigStore())

	catalog := services.NewCatalogService(memory.NewDocumentStore(), codecs, validator)
	catalogService, catalogCloser = nil, nil
	catalogOpener = func() (driving.CatalogService, io.Closer, error) {
		return catalog, nil, nil
	}

	resetFlags(rootCmd)

	return func() {
		documentService = oldDocument
		validationService = oldValidation
		settingsService = oldSettings
		catalogService, catalogCloser, catalogOpener = oldCatalog, oldCloser, oldOpener
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default. Flag variables are package
// level, so values set by one Execute would leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestDoc saves doc under a temporary directory and returns its path.
func writeTestDoc(t *testing.T, doc *domain.Document, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	format, err := serialization.ResolveFormat("", path)
	require.NoError(t, err)
	require.NoError(t, documentService.Save(context.Background(), doc, path, format))
	return path
}

// readTestDoc loads path with the format inferred from its extension.
func readTestDoc(t *testing.T, path string) *domain.Document {
	t.Helper()
	format, err := serialization.ResolveFormat("", path)
	require.NoError(t, err)
	doc, err := documentService.Load(context.Background(), path, format)
	require.NoError(t, err)
	return doc
}
