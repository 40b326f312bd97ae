package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/agsi-cli/internal/adapters/driving/mcp"
	"github.com/custodia-labs/agsi-cli/internal/logger"
	"github.com/custodia-labs/agsi-cli/internal/serialization"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools:
  agsi_validate           validate a document
  agsi_extract_materials  list materials of a document or model
  agsi_get_info           document metadata and counts
  agsi_query_materials    filter materials by kind, parameter or name

Resources:
  agsi://schema/compact   Avro schema of the compact format
  agsi://schema/wire      Protocol Buffers schema of the wire format
  agsi://catalog          stored documents
  agsi://catalog/{id}     one stored document

By default the server communicates over stdio. Use --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Examples:
  # Stdio mode (default)
  agsi mcp serve

  # HTTP mode
  agsi mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "agsi": {
        "command": "/path/to/agsi",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("no-catalog", false, "do not expose the document catalog")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	noCatalog, err := cmd.Flags().GetBool("no-catalog")
	if err != nil {
		return fmt.Errorf("getting no-catalog flag: %w", err)
	}

	ports := &mcp.Ports{
		Document:   documentService,
		Validation: validationService,
		Schema:     serialization.Schema,
	}
	if !noCatalog {
		catalog, err := openCatalog()
		if err != nil {
			logger.Warn("mcp: catalog unavailable: %v", err)
		} else {
			ports.Catalog = catalog
		}
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
