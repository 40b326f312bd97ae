package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/logger"
)

// errValidationFailed is returned when a document has errors, or warnings
// in strict mode. The report has already been printed.
var errValidationFailed = errors.New("validation failed")

// watchInterval is the minimum time between two re-validations in watch mode.
const watchInterval = 250 * time.Millisecond

var (
	validateFormat   string
	validateDetailed bool
	validateStrict   bool
	validateJSON     bool
	validateWatch    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a document",
	Long: `Runs the structural, referential and semantic checks on a document
and reports every error and warning with its location.

Errors make the document invalid. Warnings do not, unless --strict is set
or validation.strict is enabled in the settings.

With --watch the file is validated again each time it changes, until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "", "input format (default: from file extension)")
	validateCmd.Flags().BoolVarP(&validateDetailed, "detailed", "d", false, "show tier, kind and code of each issue")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as failures")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the report as JSON")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "validate again whenever the file changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errValidationServiceMissing
	}

	path := args[0]
	strict := validateStrict
	if !strict && settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			strict = s.Validation.Strict
		}
	}

	if validateWatch {
		return watchValidate(cmd, path, strict)
	}
	return validateOnce(cmd, path, strict)
}

// validateOnce loads, validates and reports path.
func validateOnce(cmd *cobra.Command, path string, strict bool) error {
	doc, err := loadDocument(cmd, path, validateFormat)
	if err != nil {
		return err
	}

	result := validationService.Validate(doc)
	passed := result.IsValid() && (!strict || len(result.Warnings) == 0)

	if validateJSON {
		if err := writeJSON(cmd, validationReport(path, result, passed)); err != nil {
			return err
		}
	} else {
		printValidation(cmd, path, result, passed)
	}

	if !passed {
		return errValidationFailed
	}
	return nil
}

type issueJSON struct {
	Tier     string `json:"tier"`
	Kind     string `json:"kind"`
	Code     string `json:"code"`
	Path     string `json:"path"`
	EntityID string `json:"entity_id,omitempty"`
	Message  string `json:"message"`
}

type reportJSON struct {
	File     string      `json:"file"`
	Valid    bool        `json:"valid"`
	Passed   bool        `json:"passed"`
	Errors   []issueJSON `json:"errors"`
	Warnings []issueJSON `json:"warnings"`
}

func validationReport(path string, result *domain.ValidationResult, passed bool) reportJSON {
	convert := func(in []domain.Issue) []issueJSON {
		out := make([]issueJSON, len(in))
		for i, issue := range in {
			out[i] = issueJSON{
				Tier:     string(issue.Tier),
				Kind:     issue.Kind.String(),
				Code:     issue.Code,
				Path:     issue.Path,
				EntityID: issue.EntityID,
				Message:  issue.Message,
			}
		}
		return out
	}
	return reportJSON{
		File:     path,
		Valid:    result.IsValid(),
		Passed:   passed,
		Errors:   convert(result.Errors),
		Warnings: convert(result.Warnings),
	}
}

func printValidation(cmd *cobra.Command, path string, result *domain.ValidationResult, passed bool) {
	st := newStyles(cmd.OutOrStdout())

	mark := st.ok.Render("✓")
	if !passed {
		mark = st.err.Render("✗")
	}
	cmd.Printf("%s %s: %s, %s\n", mark, path,
		plural(len(result.Errors), "error"), plural(len(result.Warnings), "warning"))

	for _, issue := range result.Errors {
		printIssue(cmd, st, st.err.Render("error  "), issue)
	}
	for _, issue := range result.Warnings {
		printIssue(cmd, st, st.warn.Render("warning"), issue)
	}
}

func printIssue(cmd *cobra.Command, st styles, label string, issue domain.Issue) {
	cmd.Printf("  %s %s\n", label, issue.String())
	if !validateDetailed {
		return
	}
	detail := fmt.Sprintf("tier=%s kind=%s code=%s", issue.Tier, issue.Kind, issue.Code)
	if issue.EntityID != "" {
		detail += " entity=" + issue.EntityID
	}
	cmd.Printf("          %s\n", st.dim.Render(detail))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// watchValidate validates path, then again after each change to it.
// Rapid bursts of events are collapsed by a rate limiter.
func watchValidate(cmd *cobra.Command, path string, strict bool) error {
	ctx := cmd.Context()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	report := func() {
		if err := validateOnce(cmd, path, strict); err != nil && !errors.Is(err, errValidationFailed) {
			cmd.PrintErrln("Error:", err)
		}
	}
	report()

	limiter := rate.NewLimiter(rate.Every(watchInterval), 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !affectsFile(event, path) {
				continue
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			drainEvents(watcher.Events)
			logger.Debug("watch: %s changed (%s)", path, event.Op)
			cmd.Println()
			report()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// affectsFile reports whether event is a write or re-creation of path.
func affectsFile(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// drainEvents discards events already queued so one burst triggers one run.
func drainEvents(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
