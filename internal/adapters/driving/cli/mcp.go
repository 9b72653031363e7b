package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/digest/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
	Long:  `Expose summaries and documents to AI assistants over the Model Context Protocol.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server. It speaks JSON-RPC over stdio unless --http is
given, in which case it serves the streamable HTTP transport on that
address (useful with MCP Inspector).

Examples:
  digest mcp serve
  digest mcp serve --http 127.0.0.1:8080

Assistant configuration:
  {
    "mcpServers": {
      "digest": {
        "command": "/path/to/digest",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

var mcpToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the MCP server exposes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, t := range mcp.Tools() {
			cmd.Printf("%-22s %s\n", t.Name, t.Description)
		}
	},
}

func init() {
	mcpServeCmd.Flags().String("http", "", "serve streamable HTTP on this address instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd, mcpToolsCmd)
	rootCmd.AddCommand(mcpCmd)
}

// newMCPServer builds the MCP server from the wired services.
func newMCPServer() (*mcp.Server, error) {
	if summaryService == nil {
		return nil, errors.New("summary service not configured")
	}
	return mcp.NewServer(&mcp.Ports{
		Summary:  summaryService,
		Document: documentService,
		Defaults: currentSettings().Summary,
	}, mcp.WithVersion(version))
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("reading --http: %w", err)
	}

	server, err := newMCPServer()
	if err != nil {
		return err
	}

	if addr == "" {
		return server.Run(cmd.Context())
	}
	cmd.Printf("MCP server listening on http://%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}
