package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/digest/internal/adapters/driving/httpapi"
)

var (
	serveAddr string
	serveMCP  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the pipeline over HTTP under /api, with a /health probe.

Use --mcp to also mount the MCP streamable HTTP endpoint at /mcp.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "mount the MCP endpoint at /mcp")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	settings := currentSettings()
	opts := []httpapi.Option{httpapi.WithRequestTimeout(settings.Server.RequestTimeout)}
	if serveMCP {
		mcpServer, err := newMCPServer()
		if err != nil {
			return err
		}
		opts = append(opts, httpapi.WithMount("/mcp", mcpServer.Handler()))
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Summary:      summaryService,
		Cleaning:     cleaningService,
		Translation:  translationService,
		Document:     documentService,
		Defaults:     settings,
		LLMAvailable: llmAvailable,
	}, opts...)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}
	cmd.Printf("HTTP API listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}
