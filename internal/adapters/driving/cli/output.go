package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

var (
	errDocumentServiceMissing   = errors.New("document service not configured")
	errValidationServiceMissing = errors.New("validation service not configured")
	errSettingsServiceMissing   = errors.New("settings service not configured")
)

// styles renders report text. Unstyled when colour is disabled.
type styles struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	dim     lipgloss.Style
	enabled bool
}

// newStyles decides colour for w: a terminal, with NO_COLOR unset.
func newStyles(w io.Writer) styles {
	if !colourEnabled(w) {
		plain := lipgloss.NewStyle()
		return styles{title: plain, ok: plain, err: plain, warn: plain, dim: plain}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		enabled: true,
	}
}

func colourEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeJSON prints v as indented JSON.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// loadDocument reads path, inferring the format from its extension unless
// format is set.
func loadDocument(cmd *cobra.Command, path, format string) (*domain.Document, error) {
	if documentService == nil {
		return nil, errDocumentServiceMissing
	}
	f, err := resolveFormat(format, path)
	if err != nil {
		return nil, err
	}
	doc, err := documentService.Load(cmd.Context(), path, f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return doc, nil
}

// resolveFormat returns the --format value, or the format inferred from path.
func resolveFormat(format, path string) (domain.OutputFormat, error) {
	return serialization.ResolveFormat(format, path)
}

// saveDocument writes doc to path, inferring the format like loadDocument.
func saveDocument(cmd *cobra.Command, doc *domain.Document, path, format string) error {
	f, err := resolveFormat(format, path)
	if err != nil {
		return err
	}
	if err := documentService.Save(cmd.Context(), doc, path, f); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
