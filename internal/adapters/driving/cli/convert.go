package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

var (
	convertFrom string
	convertTo   string
)

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert a document between formats",
	Long: `Re-encodes a document in another format.

Formats are taken from the file extensions unless --from or --to is given:
  .json, .agsi.json    text (canonical JSON)
  .yaml, .yml          yaml
  .avro, .agsc         compact (Avro)
  .binpb, .pb, .agsw   wire (Protocol Buffers)

When the output extension is unknown the output.format setting is used.
Fields a target format cannot carry fail the conversion; they are never
dropped silently.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "input format")
	convertCmd.Flags().StringVar(&convertTo, "to", "", "output format")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}
	input, output := args[0], args[1]

	from, err := resolveFormat(convertFrom, input)
	if err != nil {
		return err
	}
	to, err := convertTarget(output)
	if err != nil {
		return err
	}

	doc, err := documentService.Load(cmd.Context(), input, from)
	if err != nil {
		return err
	}
	if err := documentService.Save(cmd.Context(), doc, output, to); err != nil {
		return fmt.Errorf("converting %s: %w", input, err)
	}

	cmd.Printf("Converted %s (%s) -> %s (%s)\n", input, from, output, to)
	return nil
}

// convertTarget picks --to, then the output extension, then the setting.
func convertTarget(output string) (domain.OutputFormat, error) {
	if convertTo != "" {
		return serialization.ParseFormat(convertTo)
	}
	if f, ok := serialization.FormatForPath(output); ok {
		return f, nil
	}
	if settingsService != nil {
		if s, err := settingsService.Get(); err == nil {
			return s.Output.Format, nil
		}
	}
	return domain.OutputFormatText, nil
}
