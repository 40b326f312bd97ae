package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/tui"
)

var tuiFormat string

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [file]",
	Short: "Browse a document in the terminal",
	Long: `Opens a read-only terminal browser over a document: its ground models
and components, its materials and their properties, and the validation
report.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open
  /        - Filter materials by name
  r        - Reload and validate the file
  Esc      - Back
  ?        - Help
  q        - Quit`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiFormat, "format", "f", "", "input format (default: from file extension)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newTUIApp(cmd, args[0])
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newTUIApp checks the file and builds the browser over it.
func newTUIApp(cmd *cobra.Command, path string) (*tui.App, error) {
	format, err := resolveFormat(tuiFormat, path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	app, err := tui.NewApp(tui.NewPorts(documentService, validationService))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	return app.WithContext(cmd.Context()).WithFile(path, format), nil
}
