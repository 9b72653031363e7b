package mcp

import (
	"context"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/digest/internal/core/domain"
)

// ExtractiveInput is the input schema for the summarize_extractive tool.
type ExtractiveInput struct {
	DocumentID string  `json:"document_id" jsonschema:"id of an ingested and cleaned document"`
	Ratio      float64 `json:"ratio,omitempty" jsonschema:"fraction of sentences to keep, in (0, 1]"`
	Algorithm  string  `json:"algorithm,omitempty" jsonschema:"graph, frequency or topic (default graph)"`
	UseCache   *bool   `json:"use_cache,omitempty" jsonschema:"reuse cached similarity matrices (default true)"`
}

// AbstractiveInput is the input schema for the summarize_abstractive tool.
type AbstractiveInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of an ingested and cleaned document"`
	MaxLength  int    `json:"max_length,omitempty" jsonschema:"maximum words per chunk summary"`
	MinLength  int    `json:"min_length,omitempty" jsonschema:"minimum words per chunk summary"`
	Model      string `json:"model,omitempty" jsonschema:"model override"`
}

// HybridInput is the input schema for summarize_hybrid and summarize_formatted.
type HybridInput struct {
	DocumentID      string  `json:"document_id" jsonschema:"id of an ingested and cleaned document"`
	ExtractiveRatio float64 `json:"extractive_ratio,omitempty" jsonschema:"ratio for the extractive pass (default 0.5)"`
	MaxLength       int     `json:"max_length,omitempty" jsonschema:"maximum words per chunk summary"`
	MinLength       int     `json:"min_length,omitempty" jsonschema:"minimum words per chunk summary"`
}

// GetSummaryInput is the input schema for the get_summary tool.
type GetSummaryInput struct {
	DocumentID  string `json:"document_id" jsonschema:"document id"`
	SummaryType string `json:"summary_type,omitempty" jsonschema:"extractive, abstractive, hybrid or formatted-hybrid (default extractive)"`
}

// SummaryOutput is the output schema of every summary tool.
type SummaryOutput struct {
	DocumentID       string                   `json:"document_id"`
	SummaryType      string                   `json:"summary_type"`
	Summary          string                   `json:"summary"`
	Sentences        []string                 `json:"sentences,omitempty"`
	Algorithm        string                   `json:"algorithm,omitempty"`
	Model            string                   `json:"model,omitempty"`
	CompressionRatio float64                  `json:"compression_ratio"`
	OriginalLength   int                      `json:"original_length"`
	SummaryLength    int                      `json:"summary_length"`
	Formatted        *domain.FormattedSummary `json:"formatted,omitempty"`
}

// Tool names.
const (
	ToolExtractive  = "summarize_extractive"
	ToolAbstractive = "summarize_abstractive"
	ToolHybrid      = "summarize_hybrid"
	ToolFormatted   = "summarize_formatted"
	ToolGetSummary  = "get_summary"
)

// ToolInfo names and describes one tool.
type ToolInfo struct {
	Name        string
	Description string
}

var catalogue = []ToolInfo{
	{ToolExtractive, "Select the highest-ranked sentences of a cleaned document"},
	{ToolAbstractive, "Rewrite a cleaned document into a summary with the configured LLM"},
	{ToolHybrid, "Rank sentences, then rewrite the extractive summary with the LLM"},
	{ToolFormatted, "Build a structured summary with title, objective, key points and sections"},
	{ToolGetSummary, "Return the latest stored summary of a document"},
}

// Tools lists the tools every server exposes, in registration order.
func Tools() []ToolInfo {
	return slices.Clone(catalogue)
}

func tool(name string) *mcp.Tool {
	for _, t := range catalogue {
		if t.Name == name {
			return &mcp.Tool{Name: t.Name, Description: t.Description}
		}
	}
	panic("mcp: no catalogue entry for tool " + name)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, tool(ToolExtractive), s.handleExtractive)
	mcp.AddTool(s.server, tool(ToolAbstractive), s.handleAbstractive)
	mcp.AddTool(s.server, tool(ToolHybrid), s.handleHybrid)
	mcp.AddTool(s.server, tool(ToolFormatted), s.handleFormatted)
	mcp.AddTool(s.server, tool(ToolGetSummary), s.handleGetSummary)
}

func (s *Server) handleExtractive(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractiveInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	defaults := s.ports.defaults()
	opts := domain.ExtractiveOptions{
		Ratio:     input.Ratio,
		Algorithm: domain.Algorithm(input.Algorithm),
		UseCache:  true,
	}
	if opts.Ratio == 0 {
		opts.Ratio = defaults.Ratio
	}
	if opts.Algorithm == "" {
		opts.Algorithm = defaults.Algorithm
	}
	if input.UseCache != nil {
		opts.UseCache = *input.UseCache
	}

	rec, err := s.ports.Summary.Extractive(ctx, input.DocumentID, opts)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, toOutput(rec), nil
}

func (s *Server) handleAbstractive(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AbstractiveInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	rec, err := s.ports.Summary.Abstractive(ctx, input.DocumentID, domain.AbstractiveOptions{
		MaxLength: input.MaxLength,
		MinLength: input.MinLength,
		Model:     input.Model,
	})
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, toOutput(rec), nil
}

func (s *Server) handleHybrid(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HybridInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	rec, err := s.ports.Summary.Hybrid(ctx, input.DocumentID, hybridOptions(input))
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, toOutput(rec), nil
}

func (s *Server) handleFormatted(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HybridInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	rec, err := s.ports.Summary.FormattedHybrid(ctx, input.DocumentID, hybridOptions(input))
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, toOutput(rec), nil
}

func (s *Server) handleGetSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetSummaryInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	summaryType := domain.SummaryExtractive
	if input.SummaryType != "" {
		var err error
		if summaryType, err = domain.ParseSummaryType(input.SummaryType); err != nil {
			return nil, SummaryOutput{}, err
		}
	}

	rec, err := s.ports.Summary.Get(ctx, input.DocumentID, summaryType)
	if err != nil {
		return nil, SummaryOutput{}, err
	}
	return nil, toOutput(rec), nil
}

func hybridOptions(input HybridInput) domain.HybridOptions {
	return domain.HybridOptions{
		ExtractiveRatio: input.ExtractiveRatio,
		MaxLength:       input.MaxLength,
		MinLength:       input.MinLength,
	}
}

func toOutput(rec *domain.SummaryRecord) SummaryOutput {
	return SummaryOutput{
		DocumentID:       rec.DocumentID,
		SummaryType:      rec.Type.String(),
		Summary:          rec.SummaryText,
		Sentences:        rec.Sentences,
		Algorithm:        string(rec.Algorithm),
		Model:            rec.Model,
		CompressionRatio: rec.CompressionRatio,
		OriginalLength:   rec.OriginalLength,
		SummaryLength:    rec.SummaryLength,
		Formatted:        rec.Formatted,
	}
}
