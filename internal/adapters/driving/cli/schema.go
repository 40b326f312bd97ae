package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

var schemaOutput string

var schemaCmd = &cobra.Command{
	Use:   "schema [compact|wire]",
	Short: "Print the schema of a binary format",
	Long: `Prints the published schema of a binary format: the Avro schema (.avsc)
of the compact format or the Protocol Buffers definition (.proto) of the
wire format. Readers in other languages generate their decoders from it.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(serialization.Compact), string(serialization.Wire)},
	RunE:      runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "write the schema to a file")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	format, err := serialization.ParseFormat(args[0])
	if err != nil {
		return err
	}
	text, err := serialization.Schema(format)
	if err != nil {
		return err
	}

	if schemaOutput != "" {
		if err := os.WriteFile(schemaOutput, []byte(text), 0644); err != nil {
			return err
		}
		cmd.Printf("Wrote %s schema to %s\n", format, schemaOutput)
		return nil
	}
	cmd.Print(text)
	return nil
}
