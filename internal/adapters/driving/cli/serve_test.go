package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Flags(t *testing.T) {
	addr := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	assert.Equal(t, "", addr.DefValue)

	mcpFlag := serveCmd.Flags().Lookup("mcp")
	require.NotNil(t, mcpFlag)
	assert.Equal(t, "false", mcpFlag.DefValue)
}

func TestServeCmd_RequiresSummaryService(t *testing.T) {
	old := summaryService
	summaryService = nil
	defer func() { summaryService = old }()

	_, err := execute(t, "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary service not configured")
}

func TestMCPServeCmd_Flags(t *testing.T) {
	addr := mcpServeCmd.Flags().Lookup("http")
	require.NotNil(t, addr)
	assert.Equal(t, "", addr.DefValue)
}

func TestMCPToolsCmd(t *testing.T) {
	out, err := execute(t, "mcp", "tools")

	require.NoError(t, err)
	assert.Contains(t, out, "summarize_extractive")
	assert.Contains(t, out, "get_summary")
}

func TestMCPServeCmd_RequiresSummaryService(t *testing.T) {
	old := summaryService
	summaryService = nil
	defer func() { summaryService = old }()

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary service not configured")
}

func TestNewMCPServer(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	server, err := newMCPServer()

	require.NoError(t, err)
	assert.NotNil(t, server.Handler())
}
