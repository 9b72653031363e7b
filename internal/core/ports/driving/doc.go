// Package driving declares what the CLI, the HTTP API and the MCP server
// may ask of the core: ingest and inspect documents, clean them, build and
// read summaries, translate summaries, and manage settings.
//
// internal/core/services implements every interface here.
package driving
