package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.agsi/config.toml.

Use "settings keys" to list the supported keys.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting, for example:

  agsi settings set output.format wire
  agsi settings set document.author "A. Engineer"
  agsi settings set validation.strict true`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsFormatCmd = &cobra.Command{
	Use:   "format",
	Short: "Choose the default conversion format",
	Long:  `Choose the default target format of convert from a menu.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsFormat,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsFormatCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Format: %s (%s)\n", settings.Output.Format, settings.Output.Format.Description())
	cmd.Println()

	cmd.Println("[Document]")
	cmd.Printf("  Author: %s\n", valueOrUnset(settings.Document.Author))
	cmd.Printf("  Software: %s\n", valueOrUnset(settings.Document.Software))
	cmd.Println()

	cmd.Println("[Validation]")
	cmd.Printf("  Strict: %s\n", yesNo(settings.Validation.Strict))
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Verbose: %s\n", yesNo(settings.Log.Verbose))
	cmd.Println()

	cmd.Println("[Catalog]")
	cmd.Printf("  Directory: %s\n", valueOrUnset(settings.Catalog.Dir))

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsFormat(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	defaults := settingsService.GetDefaults()
	current := defaults.Output.Format
	if s, err := settingsService.Get(); err == nil {
		current = s.Output.Format
	}

	cmd.Println("Select Output Format")
	cmd.Println("--------------------")
	formats := domain.AllOutputFormats()
	currentIdx := 1
	for i, f := range formats {
		marker := " "
		if f == current {
			marker = "*"
			currentIdx = i + 1
		}
		cmd.Printf(" %s%d. %-8s %s\n", marker, i+1, f, f.Description())
	}
	cmd.Printf("\nEnter choice [%d]: ", currentIdx)

	input := readLine(bufio.NewReader(cmd.InOrStdin()))
	idx := parseChoice(input, len(formats), 0)
	if input == "" {
		idx = currentIdx
	}
	if idx == 0 {
		return errors.New("invalid selection")
	}

	selected := formats[idx-1]
	if err := settingsService.SetOutputFormat(selected); err != nil {
		return fmt.Errorf("failed to set output format: %w", err)
	}
	cmd.Printf("Output format set to: %s\n", selected.Description())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func valueOrUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
