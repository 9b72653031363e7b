// Package mcp exposes summaries and documents to AI assistants over the
// Model Context Protocol.
package mcp

import (
	"errors"

	"github.com/custodia-labs/digest/internal/core/domain"
	"github.com/custodia-labs/digest/internal/core/ports/driving"
)

// ErrMissingSummaryService is returned by NewServer without a summary service.
var ErrMissingSummaryService = errors.New("mcp: summary service is required")

// Ports are the core services the server calls.
type Ports struct {
	Summary driving.SummaryService

	// Document is optional; without it no resources are served.
	Document driving.DocumentService

	// Defaults fill tool arguments the caller leaves out. A zero Ratio
	// means domain.DefaultAppSettings().Summary.
	Defaults domain.SummarySettings
}

// Validate reports a missing required service.
func (p *Ports) Validate() error {
	if p.Summary == nil {
		return ErrMissingSummaryService
	}
	return nil
}

func (p *Ports) defaults() domain.SummarySettings {
	if p.Defaults.Ratio == 0 {
		return domain.DefaultAppSettings().Summary
	}
	return p.Defaults
}
