package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/core/domain"
)

var (
	storeFormat string
	storeOutput string
	storeJSON   bool
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local document catalog",
	Long: `The catalog keeps validated documents in a local SQLite database
(catalog.dir setting, default ~/.agsi/data). Documents with validation
errors are rejected; warnings are allowed.`,
}

var storePutCmd = &cobra.Command{
	Use:   "put [file]",
	Short: "Validate and store a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStorePut,
}

var storeGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print or export a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreGet,
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runStoreList,
}

var storeRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a stored document",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreRm,
}

func init() {
	storePutCmd.Flags().StringVarP(&storeFormat, "format", "f", "", "input format (default: from file extension)")
	storeGetCmd.Flags().StringVarP(&storeFormat, "format", "f", "", "export format (default: from file extension)")
	storeGetCmd.Flags().StringVarP(&storeOutput, "output", "o", "", "export to a file instead of printing")
	storeListCmd.Flags().BoolVar(&storeJSON, "json", false, "output as JSON")

	storeCmd.AddCommand(storePutCmd)
	storeCmd.AddCommand(storeGetCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeRmCmd)
	rootCmd.AddCommand(storeCmd)
}

func runStorePut(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(cmd, args[0], storeFormat)
	if err != nil {
		return err
	}
	catalog, err := openCatalog()
	if err != nil {
		return err
	}

	entry, err := catalog.Put(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("storing %s: %w", args[0], err)
	}
	cmd.Printf("Stored %s (%d bytes, sha256 %s)\n", entry.ID, entry.Size, shortChecksum(entry.Checksum))
	return nil
}

func runStoreGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errDocumentServiceMissing
	}
	catalog, err := openCatalog()
	if err != nil {
		return err
	}

	doc, err := catalog.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if storeOutput != "" {
		if err := saveDocument(cmd, doc, storeOutput, storeFormat); err != nil {
			return err
		}
		cmd.Printf("Exported %s to %s\n", doc.ID, storeOutput)
		return nil
	}

	data, err := documentService.Encode(doc, domain.OutputFormatText)
	if err != nil {
		return err
	}
	cmd.Println(string(data))
	return nil
}

type catalogRowJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Author        string `json:"author,omitempty"`
	SchemaVersion string `json:"schema_version"`
	Models        int    `json:"models"`
	Materials     int    `json:"materials"`
	Checksum      string `json:"checksum"`
	Size          int    `json:"size"`
	StoredAt      string `json:"stored_at"`
}

func runStoreList(cmd *cobra.Command, _ []string) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	entries, err := catalog.List(cmd.Context())
	if err != nil {
		return err
	}

	if storeJSON {
		rows := make([]catalogRowJSON, len(entries))
		for i, e := range entries {
			rows[i] = catalogRowJSON{
				ID:            e.ID,
				Name:          e.Name,
				Author:        e.Author,
				SchemaVersion: e.SchemaVersion.String(),
				Models:        e.ModelCount,
				Materials:     e.MaterialCount,
				Checksum:      e.Checksum,
				Size:          e.Size,
				StoredAt:      e.StoredAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}
		return writeJSON(cmd, rows)
	}

	if len(entries) == 0 {
		cmd.Println("Catalog is empty.")
		return nil
	}
	st := newStyles(cmd.OutOrStdout())
	cmd.Println(st.title.Render(fmt.Sprintf("%-24s %-28s %6s %9s  %s", "ID", "NAME", "MODELS", "MATERIALS", "STORED")))
	for _, e := range entries {
		cmd.Printf("%-24s %-28s %6d %9d  %s\n", e.ID, truncate(e.Name, 28), e.ModelCount, e.MaterialCount,
			e.StoredAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runStoreRm(cmd *cobra.Command, args []string) error {
	catalog, err := openCatalog()
	if err != nil {
		return err
	}
	if err := catalog.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
